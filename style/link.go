// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package style

import (
	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/expr"
	"github.com/aleutian-labs/nme/format"
)

func isEolByte(b byte) bool { return b == '\r' || b == '\n' }
func isBlankByte(b byte) bool { return b == ' ' || b == '\t' }

func linkFragmentsAndStyle(isImage bool, f *format.Descriptor) (format.LinkFragments, arena.Style) {
	if isImage {
		return f.Image, arena.StyleImage
	}
	return f.Link, arena.StyleLink
}

// BeginLink parses the target of a link or image starting at c's current
// read position, leaving the cursor at the beginning of the link/image
// text and recording the target's span as c.LinkOffset/LinkLength. It is
// called once the tokenizer has recognized the opening "[[" or "{{"
// marker and the block driver has advanced past it.
//
// An image inside link text is allowed; a link (or second image) nested
// inside one already open is not and is silently ignored, matching source
// documents that nest these markers illegally.
func BeginLink(c *arena.Context, f *format.Descriptor, v expr.Vars, isImage bool) error {
	if _, ok := findInStack(c, arena.StyleImage); ok {
		return nil
	}
	if !isImage {
		if _, ok := findInStack(c, arena.StyleLink); ok {
			return nil
		}
	}

	src := c.Src()
	lead := 0
	for lead < len(src) && isBlankByte(src[lead]) {
		lead++
	}
	c.Advance(lead)

	absoluteStart := c.SrcIndex()
	src = c.Src()

	closeByte := byte(']')
	if isImage {
		closeByte = '}'
	}

	j := 0
	pipeAt := -1
loop:
	for j < len(src) {
		switch {
		case isEolByte(src[j]):
			if j+1 >= len(src) || (isEolByte(src[j+1]) && !(src[j] == '\r' && src[j+1] == '\n')) {
				break loop
			}
		case j+1 < len(src) && src[j] == closeByte && src[j+1] == closeByte:
			break loop
		case src[j] == '|':
			pipeAt = j
			break loop
		}
		j++
	}

	k := j
	for k > 0 && (isBlankByte(src[k-1]) || isEolByte(src[k-1])) {
		k--
	}

	if k <= 0 {
		c.Advance(j)
		return nil
	}

	c.LinkOffset = absoluteStart
	c.LinkLength = k

	fr, style := linkFragmentsAndStyle(isImage, f)

	if f.SpanHook != nil {
		if err := f.SpanHook(c, style, true); err != nil {
			return err
		}
	}

	if fr.Separator != "" {
		if err := emitFragment(c, f, v, fr.Prefix); err != nil {
			return err
		}
		if fr.URLFirst {
			if err := writeLinkTarget(c, f); err != nil {
				return err
			}
			if err := emitFragment(c, f, v, fr.Separator); err != nil {
				return err
			}
		}
	} else {
		// No separator configured: the target is emitted at open time
		// and the link text, if any, simply follows.
		if err := emitFragment(c, f, v, fr.Prefix); err != nil {
			return err
		}
		if err := writeLinkTarget(c, f); err != nil {
			return err
		}
	}

	if pipeAt >= 0 {
		skip := pipeAt + 1
		for skip < len(src) && isBlankByte(src[skip]) {
			skip++
		}
		c.Advance(skip)
	}
	// else: leave the cursor at absoluteStart, so the target span is
	// re-tokenized as the visible link/image text too.

	if c.StyleDepth >= arena.MaxStyleDepth {
		return nil
	}
	c.StyleStack[c.StyleDepth] = style
	c.StyleDepth++
	return nil
}

// writeLinkTarget writes the (possibly interwiki-expanded) link target
// recorded in c.LinkOffset/LinkLength to dst, applying the format's URL
// encoder if configured.
func writeLinkTarget(c *arena.Context, f *format.Descriptor) error {
	target := c.SrcAt(c.LinkOffset, c.LinkLength)

	for _, iw := range f.Interwiki {
		if len(target) >= len(iw.Alias) && string(target[:len(iw.Alias)]) == iw.Alias {
			if err := c.AppendDst([]byte(iw.URLPfx)); err != nil {
				return err
			}
			target = target[len(iw.Alias):]
			break
		}
	}

	if f.EncodeURL != nil {
		buf := f.EncodeURL(c, nil, target)
		return c.AppendDst(buf)
	}
	return c.AppendDst(target)
}
