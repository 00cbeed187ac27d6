// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package arena

import (
	"bytes"
	"errors"
	"testing"
)

func newTestContext(t *testing.T, input string, size int) *Context {
	t.Helper()
	a, err := New(size)
	if err != nil {
		t.Fatalf("New(%d) = %v", size, err)
	}
	c, err := NewContext(a, []byte(input), "\n", '%', 0, 10)
	if err != nil {
		t.Fatalf("NewContext = %v", err)
	}
	return c
}

func TestNew_TooSmall(t *testing.T) {
	if _, err := New(1); err == nil {
		t.Error("New(1) should fail")
	}
}

func TestNew_HalfSize(t *testing.T) {
	a, err := New(100)
	if err != nil {
		t.Fatal(err)
	}
	if a.HalfSize() != 50 {
		t.Errorf("HalfSize = %d, want 50", a.HalfSize())
	}
}

func TestNewContext_InputTooLarge(t *testing.T) {
	a, _ := New(10)
	if _, err := NewContext(a, make([]byte, 6), "\n", '%', 0, 10); !errors.Is(err, ErrNotEnoughMemory) {
		t.Errorf("err = %v, want ErrNotEnoughMemory", err)
	}
}

func TestIsUTF8LeadByte(t *testing.T) {
	tests := []struct {
		b    byte
		want bool
	}{
		{'a', true},
		{0x7F, true},
		{0xC3, true}, // 110xxxxx
		{0xE2, true}, // 1110xxxx
		{0x80, false}, // continuation
		{0xBF, false},
	}
	for _, tt := range tests {
		if got := IsUTF8LeadByte(tt.b); got != tt.want {
			t.Errorf("IsUTF8LeadByte(%#x) = %v, want %v", tt.b, got, tt.want)
		}
	}
}

func TestAppendDst_CountsUCS16(t *testing.T) {
	c := newTestContext(t, "", 256)
	// "aé€": 1 + 2 + 3 bytes, 3 UCS-16 code units.
	if err := c.AppendDst([]byte("aé€")); err != nil {
		t.Fatal(err)
	}
	if c.DestLen() != 6 {
		t.Errorf("DestLen = %d, want 6", c.DestLen())
	}
	if c.DestUCS16Len() != 3 {
		t.Errorf("DestUCS16Len = %d, want 3", c.DestUCS16Len())
	}
}

func TestAppendDst_Overflow(t *testing.T) {
	c := newTestContext(t, "", 16)
	if err := c.AppendDst(make([]byte, 9)); !errors.Is(err, ErrNotEnoughMemory) {
		t.Errorf("err = %v, want ErrNotEnoughMemory", err)
	}
	// Nothing was written on failure.
	if c.DestLen() != 0 {
		t.Errorf("DestLen = %d after failed append, want 0", c.DestLen())
	}
}

func TestSpliceDst(t *testing.T) {
	c := newTestContext(t, "", 256)
	if err := c.AppendDst([]byte("hello world")); err != nil {
		t.Fatal(err)
	}
	// Replace the space with a newline plus indent.
	if err := c.SpliceDst(5, 1, []byte("\n  ")); err != nil {
		t.Fatal(err)
	}
	if got := string(c.Dst()); got != "hello\n  world" {
		t.Errorf("Dst = %q", got)
	}
}

func TestTrimTrailingSpaces(t *testing.T) {
	c := newTestContext(t, "", 256)
	if err := c.AppendDst([]byte("cell   ")); err != nil {
		t.Fatal(err)
	}
	c.TrimTrailingSpaces()
	if got := string(c.Dst()); got != "cell" {
		t.Errorf("Dst = %q, want %q", got, "cell")
	}
	if c.DestUCS16Len() != 4 {
		t.Errorf("DestUCS16Len = %d, want 4", c.DestUCS16Len())
	}
}

func TestFinish_AppendsNUL(t *testing.T) {
	c := newTestContext(t, "", 64)
	if err := c.AppendDst([]byte("out")); err != nil {
		t.Fatal(err)
	}
	out, err := c.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "out" {
		t.Errorf("output = %q", out)
	}
	if out[:4:4][3] != 0 {
		t.Error("missing trailing NUL after output")
	}
}

func TestSrcLookback(t *testing.T) {
	c := newTestContext(t, "abcdef", 64)
	c.Advance(4)
	if got := string(c.SrcLookback(2)); got != "cd" {
		t.Errorf("SrcLookback(2) = %q, want %q", got, "cd")
	}
	if got := string(c.SrcLookback(10)); got != "abcd" {
		t.Errorf("SrcLookback(10) = %q, want %q", got, "abcd")
	}
}

func TestSwapForReparse(t *testing.T) {
	// Source "ABCDEF"; the driver consumed "ABC", previously emitted
	// "PQ", and a plugin then emitted "rs" that must be re-parsed.
	c := newTestContext(t, "ABCDEF", 64)
	c.Advance(3)
	if err := c.AppendDst([]byte("PQ")); err != nil {
		t.Fatal(err)
	}
	dstLen0 := c.DestLen()
	if err := c.AppendDst([]byte("rs")); err != nil {
		t.Fatal(err)
	}

	offBefore := c.SourceOffset()
	if err := c.SwapForReparse(dstLen0); err != nil {
		t.Fatal(err)
	}

	// The new source starts with the plugin's output followed by the
	// unread tail of the old source.
	if got := string(c.Src()); got != "rsDEF" {
		t.Errorf("Src after swap = %q, want %q", got, "rsDEF")
	}
	// Already-final output survives the swap.
	if got := string(c.Dst()); got != "PQ" {
		t.Errorf("Dst after swap = %q, want %q", got, "PQ")
	}
	// Offsets reported to callbacks stay referenced to the original
	// input.
	if c.SourceOffset() != offBefore {
		t.Errorf("SourceOffset changed across swap: %d != %d", c.SourceOffset(), offBefore)
	}

	// Output appended after the swap lands after the preserved prefix.
	if err := c.AppendDst([]byte("!")); err != nil {
		t.Fatal(err)
	}
	if got := string(c.Dst()); got != "PQ!" {
		t.Errorf("Dst = %q, want %q", got, "PQ!")
	}
}

func TestSwapForReparse_Twice(t *testing.T) {
	c := newTestContext(t, "XY", 64)
	c.Advance(2)

	if err := c.AppendDst([]byte("a<p>")); err != nil {
		t.Fatal(err)
	}
	if err := c.SwapForReparse(1); err != nil {
		t.Fatal(err)
	}
	if got := string(c.Src()); got != "<p>" {
		t.Fatalf("Src = %q, want %q", got, "<p>")
	}

	// Consume one byte of the reparsed text, emit, and swap again.
	c.Advance(1)
	if err := c.AppendDst([]byte("B*")); err != nil {
		t.Fatal(err)
	}
	if err := c.SwapForReparse(2); err != nil {
		t.Fatal(err)
	}
	if got := string(c.Src()); got != "*p>" {
		t.Errorf("Src = %q, want %q", got, "*p>")
	}
	if got := string(c.Dst()); got != "aB" {
		t.Errorf("Dst = %q, want %q", got, "aB")
	}
}

func TestScratch_IsTailOfSrcHalf(t *testing.T) {
	c := newTestContext(t, "input", 64)
	if len(c.Scratch) != 32-5 {
		t.Errorf("Scratch length = %d, want %d", len(c.Scratch), 27)
	}
	// Writing into scratch must not disturb the unread source.
	for i := range c.Scratch {
		c.Scratch[i] = 0xFF
	}
	if !bytes.Equal(c.Src(), []byte("input")) {
		t.Errorf("Src disturbed by scratch writes: %q", c.Src())
	}
}
