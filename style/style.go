// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package style implements the style-span controller: the bounded style stack, mis-nesting repair, and
// link/image target capture and emission.
package style

import (
	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/expr"
	"github.com/aleutian-labs/nme/format"
	"github.com/aleutian-labs/nme/option"
	"github.com/aleutian-labs/nme/template"
)

// fragments returns the begin/end template fragments configured for
// style s.
func fragments(f *format.Descriptor, s arena.Style) (begin, end string) {
	fr := f.Styles[s]
	return fr.Begin, fr.End
}

func findInStack(c *arena.Context, s arena.Style) (int, bool) {
	for i := 0; i < c.StyleDepth; i++ {
		if c.StyleStack[i] == s {
			return i, true
		}
	}
	return 0, false
}

// verbatimSuppressed reports whether an open/close of StyleVerbatim must
// not emit any fragment: either the format wasn't asked to render
// Verbatim as Monospace at all, or Monospace is independently open
// already.
func verbatimSuppressed(c *arena.Context, opts option.Flags) bool {
	if !opts.Has(option.VerbatimAsMonospace) {
		return true
	}
	_, monoOpen := findInStack(c, arena.StyleMonospace)
	return monoOpen
}

// renderFragments returns the begin/end fragment pair to use for style s
// while it is open or closing, redirecting Verbatim to Monospace's
// fragment, and ok=false when nothing should be emitted at all.
func renderFragments(c *arena.Context, f *format.Descriptor, opts option.Flags, s arena.Style) (begin, end string, ok bool) {
	if s == arena.StyleVerbatim {
		if verbatimSuppressed(c, opts) {
			return "", "", false
		}
		s = arena.StyleMonospace
	}
	begin, end = fragments(f, s)
	return begin, end, true
}

func emitFragment(c *arena.Context, f *format.Descriptor, v expr.Vars, s string) error {
	if s == "" {
		return nil
	}
	return template.Emit(c, f, v, s)
}

func hook(f *format.Descriptor, c *arena.Context, s arena.Style, enter bool) error {
	if f.SpanHook == nil {
		return nil
	}
	return f.SpanHook(c, s, enter)
}

// closeOne writes the end fragment and hook for stack slot j's style,
// first writing any deferred link/image separator and target.
func closeOne(c *arena.Context, f *format.Descriptor, opts option.Flags, v expr.Vars, j int) error {
	s := c.StyleStack[j]

	var end string
	switch s {
	case arena.StyleLink, arena.StyleImage:
		fr := f.Link
		if s == arena.StyleImage {
			fr = f.Image
		}
		if !fr.URLFirst && fr.Separator != "" {
			if err := emitFragment(c, f, v, fr.Separator); err != nil {
				return err
			}
			if err := writeLinkTarget(c, f); err != nil {
				return err
			}
		}
		end = fr.Suffix
	default:
		var ok bool
		if _, end, ok = renderFragments(c, f, opts, s); !ok {
			return hook(f, c, s, false)
		}
	}

	if err := emitFragment(c, f, v, end); err != nil {
		return err
	}
	return hook(f, c, s, false)
}

// reopenOne writes the begin fragment and hook for a style being
// reopened after mis-nesting repair moved it earlier on the stack.
// Verbatim is never rendered on reopen, even when it would otherwise
// qualify for the Monospace fragment: a reopened Verbatim's fragment is
// dropped rather than recomputing its Monospace-or-suppressed state
// mid-repair.
func reopenOne(c *arena.Context, f *format.Descriptor, opts option.Flags, v expr.Vars, s arena.Style) error {
	if err := hook(f, c, s, true); err != nil {
		return err
	}
	if s == arena.StyleVerbatim {
		return nil
	}
	begin, _ := fragments(f, s)
	return emitFragment(c, f, v, begin)
}

// Toggle opens or closes style s (one of the nine arena.Style values,
// including Link/Image when closing an already-open one). This is the
// single entry point for every inline style marker the tokenizer
// recognizes.
//
// When s is already on the stack, it and everything above it are closed;
// anything above it that was not itself s is then reopened in order,
// except Link and Image, which are never reopened: once
// a link or image's end marker is reached, any style still open inside
// it was mis-nested and is simply dropped, matching the source author's
// broken markup rather than re-opening a link around later text.
//
// When s is not on the stack, it is pushed and its begin fragment is
// written, unless s is Link or Image (those are opened only via
// BeginLink) or the stack is already inside Image alt text and the
// format suppresses styles there.
func Toggle(c *arena.Context, f *format.Descriptor, opts option.Flags, v expr.Vars, s arena.Style) error {
	if i, ok := findInStack(c, s); ok {
		for j := c.StyleDepth - 1; j >= i; j-- {
			if err := closeOne(c, f, opts, v, j); err != nil {
				return err
			}
		}
		keep := i
		for j := i + 1; j < c.StyleDepth; j++ {
			if c.StyleStack[j] == arena.StyleLink || c.StyleStack[j] == arena.StyleImage {
				continue
			}
			c.StyleStack[keep] = c.StyleStack[j]
			if err := reopenOne(c, f, opts, v, c.StyleStack[keep]); err != nil {
				return err
			}
			keep++
		}
		c.StyleDepth = keep
		return nil
	}

	if s == arena.StyleLink || s == arena.StyleImage {
		return nil
	}
	if f.SuppressStylesInImageAlt {
		if _, imgOpen := findInStack(c, arena.StyleImage); imgOpen {
			return nil
		}
	}
	if c.StyleDepth >= arena.MaxStyleDepth {
		return nil
	}
	c.StyleStack[c.StyleDepth] = s
	c.StyleDepth++
	if err := hook(f, c, s, true); err != nil {
		return err
	}
	begin, _, ok := renderFragments(c, f, opts, s)
	if !ok {
		return nil
	}
	return emitFragment(c, f, v, begin)
}

// Flush closes every style still open, in LIFO order, without any
// mis-nesting repair. Called at paragraph/block end, where leftover
// unclosed spans are simply abandoned.
func Flush(c *arena.Context, f *format.Descriptor, opts option.Flags, v expr.Vars) error {
	for c.StyleDepth > 0 {
		c.StyleDepth--
		if err := closeOne(c, f, opts, v, c.StyleDepth); err != nil {
			return err
		}
	}
	return nil
}
