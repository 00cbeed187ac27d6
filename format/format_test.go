// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package format

import (
	"testing"

	"github.com/aleutian-labs/nme/arena"
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

func TestEncodeCharHTML(t *testing.T) {
	c := testContext(t)
	tests := []struct {
		r    rune
		want string
	}{
		{'<', "&lt;"},
		{'>', "&gt;"},
		{'"', "&quot;"},
		{'&', "&amp;"},
		{'a', "a"},
		{'é', "é"},
	}
	for _, tt := range tests {
		if got := string(EncodeCharHTML(c, nil, tt.r)); got != tt.want {
			t.Errorf("EncodeCharHTML(%q) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestEncodeCharLaTeX(t *testing.T) {
	c := testContext(t)
	tests := []struct {
		r    rune
		want string
	}{
		{'#', "\\#"},
		{'{', "\\{"},
		{'}', "\\}"},
		{'\\', "$\\backslash$"},
		{'|', "$|$"},
		{'x', "x"},
	}
	for _, tt := range tests {
		if got := string(EncodeCharLaTeX(c, nil, tt.r)); got != tt.want {
			t.Errorf("EncodeCharLaTeX(%q) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestEncodeCharRTF(t *testing.T) {
	c := testContext(t)
	tests := []struct {
		r    rune
		want string
	}{
		{'a', "a"},
		{'\\', "\\\\"},
		{'{', "\\{"},
		{'}', "\\}"},
		{'é', "\\u233?"},
		{'€', "\\u8364?"},
		{'�', "\\u-3?"}, // above 32767 wraps to the signed range
	}
	for _, tt := range tests {
		if got := string(EncodeCharRTF(c, nil, tt.r)); got != tt.want {
			t.Errorf("EncodeCharRTF(%q) = %q, want %q", tt.r, got, tt.want)
		}
	}
	// Characters beyond UCS-16 are dropped.
	if got := string(EncodeCharRTF(c, nil, '\U0001F600')); got != "" {
		t.Errorf("supplementary char emitted %q", got)
	}
}

func TestEncodeCharNME(t *testing.T) {
	// At the start of output, line-start markers are escaped.
	c := testContext(t)
	if got := string(EncodeCharNME(c, nil, '*')); got != "~*" {
		t.Errorf("line-start '*' = %q, want ~*", got)
	}

	// After plain text, '*' alone is not escaped.
	c = testContext(t)
	if err := c.AppendDst([]byte("word")); err != nil {
		t.Fatal(err)
	}
	if got := string(EncodeCharNME(c, nil, '*')); got != "*" {
		t.Errorf("mid-text '*' = %q, want *", got)
	}

	// A second '*' after an emitted '*' would read as a bold marker.
	c = testContext(t)
	if err := c.AppendDst([]byte("a*")); err != nil {
		t.Fatal(err)
	}
	if got := string(EncodeCharNME(c, nil, '*')); got != "~*" {
		t.Errorf("doubled '*' = %q, want ~*", got)
	}

	// '~' and '|' are escaped everywhere.
	c = testContext(t)
	if err := c.AppendDst([]byte("xyz")); err != nil {
		t.Fatal(err)
	}
	if got := string(EncodeCharNME(c, nil, '~')); got != "~~" {
		t.Errorf("'~' = %q", got)
	}
	if got := string(EncodeCharNME(c, nil, '|')); got != "~|" {
		t.Errorf("'|' = %q", got)
	}

	// After an EOL the line-start set applies again.
	c = testContext(t)
	if err := c.AppendDst([]byte("a\n")); err != nil {
		t.Fatal(err)
	}
	if got := string(EncodeCharNME(c, nil, '=')); got != "~=" {
		t.Errorf("after EOL '=' = %q, want ~=", got)
	}
}

func TestEncodeNull(t *testing.T) {
	c := testContext(t)
	if got := EncodeCharNull(c, nil, 'x'); len(got) != 0 {
		t.Errorf("EncodeCharNull emitted %q", got)
	}
	if got := EncodeURLNull(c, nil, []byte("http://x")); len(got) != 0 {
		t.Errorf("EncodeURLNull emitted %q", got)
	}
}

func TestWordwrapNME(t *testing.T) {
	line := []byte("some text *x")
	if WordwrapNME(line, 4) != WordwrapReplaceChar {
		t.Error("ordinary space rejected")
	}
	// The space before '*' must not become a break: the '*' would land
	// at line start and read back as a list marker.
	if WordwrapNME(line, 9) != WordwrapNo {
		t.Error("space before '*' accepted")
	}
	if WordwrapNME(line, 1) != WordwrapNo {
		t.Error("non-space accepted")
	}
}

func TestWordwrapRTF(t *testing.T) {
	line := []byte("a b")
	if WordwrapRTF(line, 1) != WordwrapInsertBefore {
		t.Error("space rejected")
	}
	if WordwrapRTF(line, 0) != WordwrapNo {
		t.Error("non-space accepted")
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"text", "text/compact", "null", "nme", "html", "rtf", "latex", "man"} {
		d, ok := Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q) missing", name)
			continue
		}
		if d.Name != name {
			t.Errorf("Lookup(%q).Name = %q", name, d.Name)
		}
		if d.CtrlChar == 0 {
			t.Errorf("%s: zero control character", name)
		}
	}
	if _, ok := Lookup("pdf"); ok {
		t.Error("Lookup(pdf) should fail")
	}
}

func TestBundledDescriptorSanity(t *testing.T) {
	for _, d := range Bundled() {
		if d.MaxHeadingLevel <= 0 {
			t.Errorf("%s: MaxHeadingLevel = %d", d.Name, d.MaxHeadingLevel)
		}
		if d.Name != "null" && d.Name != "man" && d.Link.Prefix == "" && d.Link.Separator != "" {
			t.Errorf("%s: separator without prefix", d.Name)
		}
	}
}
