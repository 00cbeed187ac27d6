// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package expr

import "testing"

func TestEval_Arithmetic(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"42", 42},
		{"-7", -7},
		{"--7", 7},
		{"+5", 5},
		{"2+3", 5},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10-2-3", 5},
		{"20/4/5", 1},
		{"7/2", 3},
		{"5/0", 0},
		{" 1 + 2 ", 3},
		{"2*-3", -6},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Eval([]byte(tt.in), Vars{}); got != tt.want {
				t.Errorf("Eval(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestEval_Comparisons(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1=1", 1},
		{"1=2", 0},
		{"1!2", 1},
		{"2!2", 0},
		{"1<2", 1},
		{"2<1", 0},
		{"3>2", 1},
		{"2>3", 0},
		{"1+1=2", 1},
		{"2*3>5", 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Eval([]byte(tt.in), Vars{}); got != tt.want {
				t.Errorf("Eval(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestEval_ShortCircuitStyle(t *testing.T) {
	// a|b yields b when a==0, else a; a&b yields b when a!=0, else a.
	tests := []struct {
		in   string
		want int
	}{
		{"0|7", 7},
		{"5|7", 5},
		{"0&7", 0},
		{"5&7", 7},
		{"1=1&3|9", 3},
		{"1=2&3|9", 9},
		{"0|0|4", 4},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Eval([]byte(tt.in), Vars{}); got != tt.want {
				t.Errorf("Eval(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestEval_Variables(t *testing.T) {
	vars := Vars{
		Level:    2,
		Item:     5,
		FontSize: 12,
		SrcOff:   100,
		DstOff:   200,
		XRef:     1,
		Resolve: func(letter byte) (int, bool) {
			if letter == 'W' {
				return 80, true
			}
			return 0, false
		},
	}
	tests := []struct {
		in   string
		want int
	}{
		{"l", 2},
		{"i", 5},
		{"s", 12},
		{"o", 100},
		{"p", 200},
		{"x", 1},
		{"3*l-2", 4},
		{"W", 80},
		{"W/s", 6},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Eval([]byte(tt.in), vars); got != tt.want {
				t.Errorf("Eval(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestEval_HeadingSizeExpression(t *testing.T) {
	// The HTML heading fragment's size chain.
	in := "l=1&3*s|l=2&2*s|l=3&3*s/2|5*s/4"
	for _, tt := range []struct {
		level, want int
	}{
		{1, 30}, {2, 20}, {3, 15}, {4, 12},
	} {
		got := Eval([]byte(in), Vars{Level: tt.level, FontSize: 10})
		if got != tt.want {
			t.Errorf("level %d: got %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestEval_MalformedIsOne(t *testing.T) {
	vars := Vars{}
	malformed := []string{
		"",
		"(",
		"(1",
		"1)",
		"1+",
		"+",
		"*3",
		"1 2",
		"q",   // unknown lowercase variable
		"Q",   // uppercase with no resolver
		"1+#",
	}
	for _, in := range malformed {
		if got := Eval([]byte(in), vars); got != 1 {
			t.Errorf("Eval(%q) = %d, want sentinel 1", in, got)
		}
	}
}

func TestEval_DeepNesting(t *testing.T) {
	// Parenthesized sub-expressions evaluate on fresh stacks, so nesting
	// deeper than one stack's worth of slots still succeeds.
	in := "((((((((((((((((((5))))))))))))))))))"
	if got := Eval([]byte(in), Vars{}); got != 5 {
		t.Errorf("Eval(deep) = %d, want 5", got)
	}
}

func TestEval_WhitespaceOnly(t *testing.T) {
	if got := Eval([]byte("   "), Vars{}); got != 1 {
		t.Errorf("Eval(blank) = %d, want sentinel 1", got)
	}
}
