// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package template

import (
	"strings"
	"testing"

	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/expr"
	"github.com/aleutian-labs/nme/format"
)

func testContext(t *testing.T) *arena.Context {
	t.Helper()
	a, err := arena.New(4096)
	if err != nil {
		t.Fatal(err)
	}
	c, err := arena.NewContext(a, nil, "\n", '%', 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func emit(t *testing.T, c *arena.Context, d *format.Descriptor, v expr.Vars, s string) string {
	t.Helper()
	if err := Emit(c, d, v, s); err != nil {
		t.Fatalf("Emit(%q) = %v", s, err)
	}
	return string(c.Dst())
}

var plainFormat = &format.Descriptor{CtrlChar: '%', OneSpace: " "}

func TestEmit_PlainText(t *testing.T) {
	c := testContext(t)
	if got := emit(t, c, plainFormat, expr.Vars{}, "hello <b>"); got != "hello <b>" {
		t.Errorf("got %q", got)
	}
}

func TestEmit_EOLWithIndent(t *testing.T) {
	c := testContext(t)
	c.CurrentIndent = 3
	got := emit(t, c, plainFormat, expr.Vars{}, "a\nb")
	if got != "a\n   b" {
		t.Errorf("got %q, want %q", got, "a\n   b")
	}
	if c.Column != 4 {
		t.Errorf("Column = %d, want 4", c.Column)
	}
}

func TestEmit_Expression(t *testing.T) {
	tests := []struct {
		fragment string
		vars     expr.Vars
		want     string
	}{
		{"<h%{l}>", expr.Vars{Level: 3}, "<h3>"},
		{"%{i}. ", expr.Vars{Item: 12}, "12. "},
		{"%{0-5}", expr.Vars{}, "-5"},
		{"%{bogus+}", expr.Vars{}, "1"}, // malformed saturates to 1
	}
	for _, tt := range tests {
		c := testContext(t)
		if got := emit(t, c, plainFormat, tt.vars, tt.fragment); got != tt.want {
			t.Errorf("Emit(%q) = %q, want %q", tt.fragment, got, tt.want)
		}
	}
}

func TestEmit_ExpressionWithoutClosingBrace(t *testing.T) {
	c := testContext(t)
	if got := emit(t, c, plainFormat, expr.Vars{}, "%{oops"); got != "%{oops" {
		t.Errorf("got %q, want the text verbatim", got)
	}
}

func TestEmit_Replicate(t *testing.T) {
	tests := []struct {
		fragment string
		vars     expr.Vars
		want     string
	}{
		{"%%{3}ab%%", expr.Vars{}, "ababab"},
		{"%%{0}ab%%", expr.Vars{}, ""},
		{"%%{0-2}ab%%", expr.Vars{}, ""},
		{"%%{l=1}yes%%", expr.Vars{Level: 1}, "yes"},
		{"%%{l=1}yes%%", expr.Vars{Level: 2}, ""},
		{"%%{2}<%{i}>%%", expr.Vars{Item: 7}, "<7><7>"},
		{"a%%{1}-%%b", expr.Vars{}, "a-b"},
	}
	for _, tt := range tests {
		c := testContext(t)
		if got := emit(t, c, plainFormat, tt.vars, tt.fragment); got != tt.want {
			t.Errorf("Emit(%q) = %q, want %q", tt.fragment, got, tt.want)
		}
	}
}

func TestEmit_ReplicateClampsAt100(t *testing.T) {
	c := testContext(t)
	got := emit(t, c, plainFormat, expr.Vars{}, "%%{2000}x%%")
	if len(got) != 100 || strings.Trim(got, "x") != "" {
		t.Errorf("got %d bytes %q, want 100 x's", len(got), got)
	}
}

func TestEmit_ListSignature(t *testing.T) {
	c := testContext(t)
	c.ListStack[0] = int(arena.ListUnnumbered)
	c.ListStack[1] = 3 // ordered, counter 3
	c.ListStack[2] = int(arena.ListDefinitionTitle)
	c.ListStack[3] = int(arena.ListIndented)
	c.ListDepth = 4
	if got := emit(t, c, plainFormat, expr.Vars{}, "%L "); got != "*#;: " {
		t.Errorf("got %q, want %q", got, "*#;: ")
	}
}

func TestEmit_CustomControlChar(t *testing.T) {
	d := &format.Descriptor{CtrlChar: '@', OneSpace: " "}
	a, _ := arena.New(1024)
	c, _ := arena.NewContext(a, nil, "\n", '@', 0, 10)
	if err := Emit(c, d, expr.Vars{Level: 2}, "@{l}%{l}"); err != nil {
		t.Fatal(err)
	}
	// '@' is the control character here; '%' is plain text.
	if got := string(c.Dst()); got != "2%{l}" {
		t.Errorf("got %q, want %q", got, "2%{l}")
	}
}

func TestRaw_DefaultWordwrap(t *testing.T) {
	d := &format.Descriptor{CtrlChar: '%', WordwrapColumn: 10}
	c := testContext(t)
	if err := Raw(c, d, []byte("aaaa bbbb cccc")); err != nil {
		t.Fatal(err)
	}
	// The last space on the overflowing line is replaced by a break.
	if got := string(c.Dst()); got != "aaaa bbbb\ncccc" {
		t.Errorf("got %q, want %q", got, "aaaa bbbb\ncccc")
	}
	if c.Column != 4 {
		t.Errorf("Column = %d, want 4", c.Column)
	}
}

func TestRaw_WordwrapCallbackInsertBefore(t *testing.T) {
	d := &format.Descriptor{
		CtrlChar:       '%',
		WordwrapColumn: 8,
		Wordwrap: func(dst []byte, i int) format.WordwrapPermission {
			if dst[i] == ' ' {
				return format.WordwrapInsertBefore
			}
			return format.WordwrapNo
		},
	}
	c := testContext(t)
	if err := Raw(c, d, []byte("one two three")); err != nil {
		t.Fatal(err)
	}
	// The break is inserted before the space, which stays.
	if got := string(c.Dst()); got != "one two\n three" {
		t.Errorf("got %q, want %q", got, "one two\n three")
	}
}

func TestRaw_NoBreakPointOverflows(t *testing.T) {
	d := &format.Descriptor{CtrlChar: '%', WordwrapColumn: 5}
	c := testContext(t)
	if err := Raw(c, d, []byte("unbreakable")); err != nil {
		t.Fatal(err)
	}
	if got := string(c.Dst()); got != "unbreakable" {
		t.Errorf("got %q", got)
	}
}
