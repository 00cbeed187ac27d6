// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package nme

import (
	"errors"

	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/block"
)

// ErrNotEnoughMemory is returned when the supplied arena is too small to
// hold the translated output at some point during the run. The caller may
// retry Translate with a larger arenaSize.
var ErrNotEnoughMemory = arena.ErrNotEnoughMemory

// ErrInternal reports a parser state-machine invariant violation. It
// should never escape a correct translation; seeing it means the engine
// itself has a bug, not that the input markup was malformed.
var ErrInternal = block.ErrInternal

// ErrBadMarkup is reserved for future use. The core engine degrades
// malformed markup gracefully rather than raising an error (unterminated
// styles auto-close, unmatched closers are kept as plain text, overflowing
// expressions saturate to 1), so nothing in this package currently
// returns it.
var ErrBadMarkup = errors.New("nme: malformed markup")
