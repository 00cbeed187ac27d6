// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package block

import "github.com/aleutian-labs/nme/arena"

// listValueForMarker returns the value to store in a freshly opened
// list-stack slot for the leading marker byte at that nesting depth
//: an ordered item starts its counter at 1.
func listValueForMarker(b byte) int {
	switch b {
	case '*':
		return int(arena.ListUnnumbered)
	case ';':
		return int(arena.ListDefinitionTitle)
	case ':':
		return int(arena.ListIndented)
	default: // '#'
		return 1
	}
}

// openMarker names the construct being opened for a freshly pushed
// list-stack slot, for the div hook.
func openMarker(v int) string {
	switch {
	case v > 0:
		return "#"
	case arena.ListKind(v) == arena.ListUnnumbered:
		return "*"
	case arena.ListKind(v) == arena.ListDefinitionTitle:
		return ";"
	case arena.ListKind(v) == arena.ListIndented:
		return ":"
	default:
		return "#"
	}
}

// itemMarker names a single entry within an open list for the par hook,
// distinguishing a definition's title half from its definition half
func itemMarker(v int) string {
	switch {
	case v > 0:
		return "#"
	case arena.ListKind(v) == arena.ListUnnumbered:
		return "*"
	case arena.ListKind(v) == arena.ListDefinitionTitle:
		return ";"
	case arena.ListKind(v) == arena.ListDefinitionDefinition:
		return ";:"
	case arena.ListKind(v) == arena.ListIndented:
		return ":"
	default:
		return "#"
	}
}

// closeContainerMarker names the construct being fully unwound (its whole
// list or table, not just the current item) for the div hook.
func closeContainerMarker(v int) string {
	switch {
	case v > 0:
		return "#"
	case arena.ListKind(v) == arena.ListUnnumbered:
		return "*"
	case arena.ListKind(v) == arena.ListDefinitionTitle, arena.ListKind(v) == arena.ListDefinitionDefinition:
		return ";"
	case arena.ListKind(v) == arena.ListIndented:
		return ":"
	default:
		return "|"
	}
}

// containerFragments returns the begin/end fragment pair wrapping an
// entire list or table of kind v.
func (m *Machine) containerFragments(v int) (begin, end string) {
	f := m.F
	switch {
	case v > 0:
		return f.BeginOL, f.EndOL
	case arena.ListKind(v) == arena.ListUnnumbered:
		return f.BeginUL, f.EndUL
	case arena.ListKind(v) == arena.ListDefinitionTitle, arena.ListKind(v) == arena.ListDefinitionDefinition:
		return f.BeginDL, f.EndDL
	case arena.ListKind(v) == arena.ListIndented:
		return f.BeginIndent, f.EndIndent
	case arena.ListKind(v) == arena.ListTableNormalCell, arena.ListKind(v) == arena.ListTableHeadingCell:
		return f.BeginTable, f.EndTable
	}
	return "", ""
}

// itemFragments returns the begin/end fragment pair wrapping one entry
// within an open list (not a table; cells have their own fragments).
func (m *Machine) itemFragments(v int) (begin, end string) {
	f := m.F
	switch {
	case v > 0:
		return f.BeginOLItem, f.EndOLItem
	case arena.ListKind(v) == arena.ListUnnumbered:
		return f.BeginULItem, f.EndULItem
	case arena.ListKind(v) == arena.ListDefinitionTitle:
		return f.BeginDT, f.EndDT
	case arena.ListKind(v) == arena.ListDefinitionDefinition:
		return f.BeginDD, f.EndDD
	case arena.ListKind(v) == arena.ListIndented:
		return f.BeginIndentedPar, f.EndIndentedPar
	}
	return "", ""
}

// indentWidth is the number of leading spaces used per nesting level.
func (m *Machine) indentWidth() int {
	return len(m.F.IndentPerLevel)
}

// isTableKind reports whether v is one of the table-cell sentinels.
func isTableKind(v int) bool {
	return arena.ListKind(v) == arena.ListTableNormalCell || arena.ListKind(v) == arena.ListTableHeadingCell
}
