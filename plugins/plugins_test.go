// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package plugins

import (
	"testing"

	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/format"
)

func testContext(t *testing.T) *arena.Context {
	t.Helper()
	a, err := arena.New(1024)
	if err != nil {
		t.Fatal(err)
	}
	c, err := arena.NewContext(a, nil, "\n", '%', 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestReverse(t *testing.T) {
	c := testContext(t)
	if err := Reverse(c, []byte("reverse"), []byte("abc")); err != nil {
		t.Fatal(err)
	}
	if got := string(c.Dst()); got != "cba" {
		t.Errorf("got %q", got)
	}
}

func TestReverse_PalindromicMarkup(t *testing.T) {
	c := testContext(t)
	if err := Reverse(c, []byte("reverse"), []byte("**A**")); err != nil {
		t.Fatal(err)
	}
	if got := string(c.Dst()); got != "**A**" {
		t.Errorf("got %q", got)
	}
}

func TestRot13(t *testing.T) {
	c := testContext(t)
	if err := Rot13(c, []byte("rot13"), []byte("Hello, World! 123")); err != nil {
		t.Fatal(err)
	}
	if got := string(c.Dst()); got != "Uryyb, Jbeyq! 123" {
		t.Errorf("got %q", got)
	}

	// Applying it twice restores the input.
	c2 := testContext(t)
	if err := Rot13(c2, []byte("rot13"), c.Dst()); err != nil {
		t.Fatal(err)
	}
	if got := string(c2.Dst()); got != "Hello, World! 123" {
		t.Errorf("round trip got %q", got)
	}
}

func TestUppercase(t *testing.T) {
	c := testContext(t)
	if err := Uppercase(c, []byte("uppercase"), []byte("mixed Case 7")); err != nil {
		t.Fatal(err)
	}
	if got := string(c.Dst()); got != "MIXED CASE 7" {
		t.Errorf("got %q", got)
	}
}

func TestAppendByte_TranslatesEOL(t *testing.T) {
	a, _ := arena.New(1024)
	c, _ := arena.NewContext(a, nil, "\r\n", '%', 0, 10)
	c.CurrentIndent = 2
	if err := Reverse(c, []byte("reverse"), []byte("b\na")); err != nil {
		t.Fatal(err)
	}
	if got := string(c.Dst()); got != "a\r\n  b" {
		t.Errorf("got %q", got)
	}
}

func TestEntries(t *testing.T) {
	entries := Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	for _, e := range entries {
		if e.Options&format.PluginReparseOutput == 0 {
			t.Errorf("%s: missing reparse option", e.Name)
		}
		if e.Func == nil {
			t.Errorf("%s: nil callback", e.Name)
		}
	}
}
