// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command nme converts wiki-style markup to HTML, LaTeX, RTF, plain
// text, man, or normalized NME. It is the thin wrapper around the engine
// in the repository root: all file I/O, flag parsing, and diagnostics
// live here, none of it in the engine.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
