// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package arena implements the dual-buffer arena and parser context used by
// the nme translation engine.
//
// # Description
//
// A translation works out of a single contiguous byte arena split into two
// equal halves. One half is always "src" (read from) and the other is
// always "dst" (written to); a plugin or autoconvert callback that wants
// its freshly emitted text re-parsed as new source triggers a buffer swap
// (see Context.SwapForReparse), after which the roles flip without any
// additional allocation. The two halves are non-aliased byte slices so
// the swap can be reasoned about as one operation instead of raw
// pointer arithmetic.
//
// # Thread Safety
//
// Arena and Context are not safe for concurrent use. A Context is created
// for exactly one Translate call and discarded when it returns.
package arena

import "errors"

// ErrNotEnoughMemory is returned when appending to a half would exceed its
// fixed capacity. The caller should retry the whole translation with a
// larger arena.
var ErrNotEnoughMemory = errors.New("nme/arena: not enough memory")

// Arena owns the backing storage for one translation: a single byte slice
// cut into two equal, non-overlapping halves.
type Arena struct {
	storage []byte
	half    int
}

// New allocates an arena of the given total size, split into two halves of
// size/2 bytes each. size must be at least 2; an odd size loses its
// last byte to rounding.
func New(size int) (*Arena, error) {
	if size < 2 {
		return nil, errors.New("nme/arena: size too small")
	}
	half := size / 2
	return &Arena{storage: make([]byte, 2*half), half: half}, nil
}

// HalfSize returns the capacity of each of the two halves.
func (a *Arena) HalfSize() int { return a.half }

// halfSlice returns the i'th half (0 or 1) as a fixed-capacity byte slice.
func (a *Arena) halfSlice(i int) []byte {
	return a.storage[i*a.half : i*a.half+a.half : i*a.half+a.half]
}
