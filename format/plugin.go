// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package format

import "github.com/aleutian-labs/nme/arena"

// PluginOptions are per-entry flags controlling how a plugin is matched and
// how its output is treated.
type PluginOptions uint8

const (
	// PluginPartialName allows Name to match a strict prefix of the
	// identifier after << rather than requiring an exact match.
	PluginPartialName PluginOptions = 1 << iota
	// PluginReparseOutput marks the plugin's emitted text for re-parsing
	// as new NME source via the buffer-swap protocol.
	PluginReparseOutput
	// PluginBetweenPar forces the plugin to run outside any paragraph or
	// list, closing and reopening block context as needed.
	PluginBetweenPar
	// PluginTripleAngleBrackets restricts this entry to the <<<name>>>
	// placeholder form instead of <<name>>.
	PluginTripleAngleBrackets
)

// PluginFunc receives the matched name, the (possibly empty) body of a
// block-form invocation, and the active context, and emits replacement
// text by appending it to c's destination (c.AppendDst and friends); it
// receives no *Descriptor, so it does not go through the template
// package. A non-nil error aborts the translation.
type PluginFunc func(c *arena.Context, name, body []byte) error

// PluginEntry is one row of a format's plugin table.
type PluginEntry struct {
	Name    string
	Options PluginOptions
	Func    PluginFunc
}

// AutoconvertFunc is offered the unconsumed source at the current position
// before every token in a paragraphable state. If it recognizes and
// consumes a span, it emits replacement text itself (by appending to c's
// destination) and returns the number of source bytes consumed and true.
// Returning consumed == 0 and found == false leaves the position
// untouched for the next autoconvert or the tokenizer.
type AutoconvertFunc func(c *arena.Context, src []byte) (consumed int, found bool)

// AutoconvertEntry is one row of a format's autoconvert table. Entries are
// tried in order; the first to consume input wins for that position.
type AutoconvertEntry struct {
	Name string
	Func AutoconvertFunc
	// ReparseOutput marks this autoconvert's emitted text for re-parsing,
	// mirroring the PluginReparseOutput plugin option.
	ReparseOutput bool
}
