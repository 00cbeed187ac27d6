// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package autoconvert

import (
	"testing"

	"github.com/aleutian-labs/nme/arena"
)

func testContext(t *testing.T, input string, skip int) *arena.Context {
	t.Helper()
	a, err := arena.New(2048)
	if err != nil {
		t.Fatal(err)
	}
	c, err := arena.NewContext(a, []byte(input), "\n", '%', 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	c.Advance(skip)
	return c
}

func TestURL_AtDocumentStart(t *testing.T) {
	c := testContext(t, "http://x.org/p rest", 0)
	consumed, found := URL(c, c.Src())
	if !found {
		t.Fatal("URL not recognized at offset 0")
	}
	if consumed != len("http://x.org/p") {
		t.Errorf("consumed = %d", consumed)
	}
	if got := string(c.Dst()); got != "[[http://x.org/p]]" {
		t.Errorf("emitted %q", got)
	}
}

func TestURL_AfterBlank(t *testing.T) {
	c := testContext(t, "see https://a.b today", 3)
	consumed, found := URL(c, c.Src())
	if !found {
		t.Fatal("URL after blank not recognized")
	}
	// The leading blank is consumed and re-emitted before the link.
	if consumed != len(" https://a.b") {
		t.Errorf("consumed = %d", consumed)
	}
	if got := string(c.Dst()); got != " [[https://a.b]]" {
		t.Errorf("emitted %q", got)
	}
}

func TestURL_NotMidWord(t *testing.T) {
	// Cursor on the 'h' of a URL glued to preceding text.
	c := testContext(t, "xhttp://a.b", 1)
	if _, found := URL(c, c.Src()); found {
		t.Error("URL recognized mid-word")
	}
}

func TestURL_TrailingPunctuationStripped(t *testing.T) {
	c := testContext(t, "ftp://host/file. Next", 0)
	consumed, found := URL(c, c.Src())
	if !found {
		t.Fatal("not recognized")
	}
	if got := string(c.Dst()); got != "[[ftp://host/file]]" {
		t.Errorf("emitted %q", got)
	}
	if consumed != len("ftp://host/file") {
		t.Errorf("consumed = %d", consumed)
	}
}

func TestURL_BarePrefixIgnored(t *testing.T) {
	c := testContext(t, "http:// and more", 0)
	if _, found := URL(c, c.Src()); found {
		t.Error("bare scheme with empty rest recognized")
	}
}

func TestURL_Mailto(t *testing.T) {
	c := testContext(t, "mailto:a@b.c", 0)
	if _, found := URL(c, c.Src()); !found {
		t.Error("mailto not recognized")
	}
}

func TestCamelCase(t *testing.T) {
	c := testContext(t, "WikiWord rest", 0)
	consumed, found := CamelCase(c, c.Src())
	if !found {
		t.Fatal("CamelCase not recognized")
	}
	if consumed != len("WikiWord") {
		t.Errorf("consumed = %d", consumed)
	}
	if got := string(c.Dst()); got != "[[WikiWord]]" {
		t.Errorf("emitted %q", got)
	}
}

func TestCamelCase_PlainWordsIgnored(t *testing.T) {
	for _, in := range []string{"word rest", "UPPER rest", "Capitalized rest", "123Abc"} {
		c := testContext(t, in, 0)
		if _, found := CamelCase(c, c.Src()); found {
			t.Errorf("%q recognized as CamelCase", in)
		}
	}
}

func TestCamelCase_AfterBlank(t *testing.T) {
	c := testContext(t, "a NetHack x", 1)
	consumed, found := CamelCase(c, c.Src())
	if !found {
		t.Fatal("not recognized after blank")
	}
	if consumed != len(" NetHack") {
		t.Errorf("consumed = %d", consumed)
	}
	if got := string(c.Dst()); got != " [[NetHack]]" {
		t.Errorf("emitted %q", got)
	}
}

func TestEntries_MarkedForReparse(t *testing.T) {
	for _, e := range Entries() {
		if !e.ReparseOutput {
			t.Errorf("%s: not marked for reparse", e.Name)
		}
	}
}
