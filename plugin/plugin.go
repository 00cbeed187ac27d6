// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package plugin implements the plugin/autoconvert driver: matching a tokenized <<name>>/<<<name>>> tag
// against a format's plugin table, offering autoconvert callbacks ahead
// of every token in a paragraphable state, and triggering the
// buffer-swap reparse protocol when a callback's output is itself new
// markup.
package plugin

import (
	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/format"
)

// Find looks up the plugin table entry matching name, honoring the
// triple-angle-bracket restriction and partial-name matching. A table
// entry matches when its Name is a prefix of the tokenized name, and
// either that prefix is the whole name or the entry allows
// PluginPartialName.
func Find(f *format.Descriptor, name string, isPlaceholder bool) (format.PluginEntry, bool) {
	for _, p := range f.Plugins {
		hasTriple := p.Options&format.PluginTripleAngleBrackets != 0
		if hasTriple != isPlaceholder {
			continue
		}
		if len(p.Name) > len(name) || name[:len(p.Name)] != p.Name {
			continue
		}
		if len(p.Name) != len(name) && p.Options&format.PluginPartialName == 0 {
			continue
		}
		return p, true
	}
	return format.PluginEntry{}, false
}

// BetweenPar reports whether entry must run outside any open paragraph
// or list.
func BetweenPar(p format.PluginEntry) bool {
	return p.Options&format.PluginBetweenPar != 0
}

// Dispatch runs a matched plugin's callback and, if it requests reparse,
// swaps the arena buffers so the callback's output is read back as new
// source.
func Dispatch(c *arena.Context, p format.PluginEntry, name, body []byte) (reparse bool, err error) {
	dstLen0 := c.DestLen()
	if err := p.Func(c, name, body); err != nil {
		return false, err
	}
	if p.Options&format.PluginReparseOutput == 0 {
		return false, nil
	}
	if err := c.SwapForReparse(dstLen0); err != nil {
		return false, err
	}
	return true, nil
}

// TryAutoconvert offers c's unconsumed source to each of the format's
// autoconvert callbacks in order, stopping at the first one that
// recognizes and consumes a span. The guard
// c.NoAutoOrPluginLen() keeps a callback's own output from being
// re-offered to autoconvert, preventing infinite self-triggering
// recursion.
func TryAutoconvert(c *arena.Context, f *format.Descriptor) (bool, error) {
	if len(f.Autoconverts) == 0 || c.SrcIndex() < c.NoAutoOrPluginLen() {
		return false, nil
	}
	src := c.Src()
	for _, ac := range f.Autoconverts {
		dstLen0 := c.DestLen()
		consumed, found := ac.Func(c, src)
		if !found {
			continue
		}
		c.Advance(consumed)
		c.SetNoAutoOrPluginLen(c.DestLen())
		if ac.ReparseOutput {
			if err := c.SwapForReparse(dstLen0); err != nil {
				return true, err
			}
		}
		return true, nil
	}
	return false, nil
}
