// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package nmetest holds shared test helpers. Its main export renders a
// unified diff when a golden-output assertion fails, so a mismatched
// multi-line translation shows the offending line instead of two walls
// of text.
package nmetest

import (
	"strings"
	"testing"

	"github.com/sourcegraph/go-diff/diff"
)

// Equal asserts got == want, reporting a unified diff labeled with name
// on mismatch.
func Equal(t *testing.T, name, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	t.Errorf("%s mismatch:\n%s", name, unifiedDiff(want, got))
}

// Contains asserts got contains each fragment in order, reporting the
// first missing fragment and the full output on failure.
func Contains(t *testing.T, name, got string, fragments ...string) {
	t.Helper()
	rest := got
	for _, frag := range fragments {
		idx := strings.Index(rest, frag)
		if idx < 0 {
			t.Errorf("%s: output does not contain %q (in order); full output:\n%s", name, frag, got)
			return
		}
		rest = rest[idx+len(frag):]
	}
}

// unifiedDiff renders want→got as a single-hunk unified diff. The hunk
// covers everything from the first differing line to the end: precise
// enough to point at the break without pulling in a real diff algorithm.
func unifiedDiff(want, got string) string {
	wantLines := strings.SplitAfter(want, "\n")
	gotLines := strings.SplitAfter(got, "\n")

	common := 0
	for common < len(wantLines) && common < len(gotLines) && wantLines[common] == gotLines[common] {
		common++
	}

	var body strings.Builder
	for _, line := range wantLines[common:] {
		body.WriteString("-" + ensureNL(line))
	}
	for _, line := range gotLines[common:] {
		body.WriteString("+" + ensureNL(line))
	}

	fd := &diff.FileDiff{
		OrigName: "want",
		NewName:  "got",
		Hunks: []*diff.Hunk{{
			OrigStartLine: int32(common + 1),
			OrigLines:     int32(len(wantLines) - common),
			NewStartLine:  int32(common + 1),
			NewLines:      int32(len(gotLines) - common),
			Body:          []byte(body.String()),
		}},
	}
	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return "want:\n" + want + "\ngot:\n" + got
	}
	return string(out)
}

func ensureNL(line string) string {
	if strings.HasSuffix(line, "\n") {
		return line
	}
	return line + "\n"
}
