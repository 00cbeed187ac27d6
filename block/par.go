// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package block

import "github.com/aleutian-labs/nme/arena"

func itemValue(v int) int {
	if v > 0 {
		return v
	}
	return 0
}

// unwindListsTo pops list-stack levels down to target. Each popped level
// writes its container-close fragment and div hook; when the pop lands
// inside a still-open ancestor item, that item is ended too, since the
// nested list it contained was part of the item's content.
func (m *Machine) unwindListsTo(c *arena.Context, target int) error {
	level0, item0 := c.Level, c.Item
	for c.ListDepth > target {
		v := c.ListStack[c.ListDepth-1]
		level := c.ListDepth
		if isTableKind(v) {
			level = 0
		}
		c.Level = level
		c.Item = itemValue(v)
		_, end := m.containerFragments(v)
		if err := m.emit(c, end); err != nil {
			return err
		}
		if err := m.divHook(c, level, 0, closeContainerMarker(v), false); err != nil {
			return err
		}
		c.Level, c.Item = level0, item0
		c.ListDepth--
		if c.ListDepth > 0 {
			if err := m.endItem(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// openListLevels pushes new list-stack levels from c.ListDepth up to
// len(markers), one per marker byte (outermost first), writing each
// level's container-open fragment and div hook.
func (m *Machine) openListLevels(c *arena.Context, markers []byte) error {
	level0 := c.Level
	for c.ListDepth < len(markers) {
		v := listValueForMarker(markers[c.ListDepth])
		c.ListStack[c.ListDepth] = v
		c.ListDepth++
		c.Level = c.ListDepth
		if err := m.divHook(c, c.ListDepth, 0, openMarker(v), true); err != nil {
			return err
		}
		begin, _ := m.containerFragments(v)
		if err := m.emit(c, begin); err != nil {
			return err
		}
		c.Level = level0
	}
	return nil
}

// beginItem writes the begin fragment and par hook for a freshly opened
// list item at the current (innermost) nesting level. Callers are
// responsible for skipping leading blanks first.
func (m *Machine) beginItem(c *arena.Context) error {
	v := c.ListStack[c.ListDepth-1]
	c.CurrentIndent = c.ListDepth * m.indentWidth()
	c.Level = c.ListDepth
	c.Item = itemValue(v)
	if err := m.parHook(c, itemMarker(v), true); err != nil {
		return err
	}
	begin, _ := m.itemFragments(v)
	if err := m.emit(c, begin); err != nil {
		return err
	}
	c.Level, c.Item = 0, 0
	return nil
}

// endItem closes the single innermost open list item or table
// cell/row, incrementing an ordered item's counter, without touching
// any ancestor level.
func (m *Machine) endItem(c *arena.Context) error {
	level0, item0 := c.Level, c.Item
	v := c.ListStack[c.ListDepth-1]
	c.Level = c.ListDepth
	c.Item = itemValue(v)

	switch {
	case v > 0:
		c.ListStack[c.ListDepth-1] = v + 1
		if err := m.emit(c, m.F.EndOLItem); err != nil {
			return err
		}
		if err := m.parHook(c, "#", false); err != nil {
			return err
		}
	case isTableKind(v):
		end := m.F.EndCell
		marker := "|"
		if arena.ListKind(v) == arena.ListTableHeadingCell {
			end = m.F.EndHeaderCell
			marker = "|="
		}
		if err := m.emit(c, end); err != nil {
			return err
		}
		if err := m.parHook(c, marker, false); err != nil {
			return err
		}
		if err := m.emit(c, m.F.EndRow); err != nil {
			return err
		}
	default:
		_, end := m.itemFragments(v)
		if err := m.emit(c, end); err != nil {
			return err
		}
		if err := m.parHook(c, itemMarker(v), false); err != nil {
			return err
		}
	}

	c.Level, c.Item = level0, item0
	return nil
}

// endPar closes whatever is currently open: the innermost list item or
// table cell/row if any list is open, the paragraph itself otherwise.
// force additionally unwinds every ancestor list/table level, used at a
// blank line or any other point that terminates list nesting outright
func (m *Machine) endPar(c *arena.Context, force bool) error {
	if c.ListDepth == 0 {
		if err := m.emit(c, m.F.EndParagraph); err != nil {
			return err
		}
		return m.parHook(c, "p", false)
	}
	if err := m.endItem(c); err != nil {
		return err
	}
	if force {
		if err := m.unwindListsTo(c, 0); err != nil {
			return err
		}
		c.CurrentIndent = 0
	}
	return nil
}

// beginListItemFresh opens a ListItem token's requested nesting (from
// depth 0, since the machine is between paragraphs) and begins the item.
func (m *Machine) beginListItemFresh(c *arena.Context, markers []byte) error {
	if err := m.openListLevels(c, markers); err != nil {
		return err
	}
	skipBlanks(c)
	return m.beginItem(c)
}

// continueListItem reacts to a ListItem token arriving while a paragraph
// context is still open. An item at the current depth or shallower first
// ends the running item (and unwinds deeper levels, ending the ancestor
// item each pop lands in); an item strictly deeper leaves the running
// item open, since the nested list becomes part of its content
func (m *Machine) continueListItem(c *arena.Context, markers []byte) error {
	if c.ListDepth >= len(markers) {
		if err := m.endItem(c); err != nil {
			return err
		}
		if err := m.unwindListsTo(c, len(markers)); err != nil {
			return err
		}
	}
	if err := m.openListLevels(c, markers); err != nil {
		return err
	}
	skipBlanks(c)
	// A ';' item reusing a depth left in the definition half converts it
	// back to a title, and a ':' line at a title's depth is that title's
	// definition half.
	switch {
	case markers[len(markers)-1] == ';' &&
		arena.ListKind(c.ListStack[c.ListDepth-1]) == arena.ListDefinitionDefinition:
		c.ListStack[c.ListDepth-1] = int(arena.ListDefinitionTitle)
	case markers[len(markers)-1] == ':' &&
		arena.ListKind(c.ListStack[c.ListDepth-1]) == arena.ListDefinitionTitle:
		c.ListStack[c.ListDepth-1] = int(arena.ListDefinitionDefinition)
	}
	return m.beginItem(c)
}

// beginTableFresh opens a brand new table with its first cell.
func (m *Machine) beginTableFresh(c *arena.Context, heading bool) error {
	v := int(arena.ListTableNormalCell)
	if heading {
		v = int(arena.ListTableHeadingCell)
	}
	c.ListStack[c.ListDepth] = v
	c.ListDepth++
	c.CurrentIndent = c.ListDepth * m.indentWidth()
	c.Level = c.ListDepth - 1
	if err := m.divHook(c, 0, 0, "|", true); err != nil {
		return err
	}
	if err := m.emit(c, m.F.BeginTable); err != nil {
		return err
	}
	if err := m.emit(c, m.F.BeginRow); err != nil {
		return err
	}
	marker, beginCell := "|", m.F.BeginCell
	if heading {
		marker, beginCell = "|=", m.F.BeginHeaderCell
	}
	if err := m.parHook(c, marker, true); err != nil {
		return err
	}
	if err := m.emit(c, beginCell); err != nil {
		return err
	}
	c.Level = 0
	return nil
}

// beginTableRow opens a new row in an already-open table (the table
// container itself is not reopened), used when a row-terminating EOL is
// immediately followed by another table cell marker.
func (m *Machine) beginTableRow(c *arena.Context, heading bool) error {
	v := int(arena.ListTableNormalCell)
	if heading {
		v = int(arena.ListTableHeadingCell)
	}
	c.ListStack[c.ListDepth-1] = v
	if err := m.emit(c, m.F.BeginRow); err != nil {
		return err
	}
	marker, beginCell := "|", m.F.BeginCell
	if heading {
		marker, beginCell = "|=", m.F.BeginHeaderCell
	}
	if err := m.parHook(c, marker, true); err != nil {
		return err
	}
	return m.emit(c, beginCell)
}

// nextCellSameRow ends the current cell and opens a new one in the same
// row, for a '|'/'|=' token reached mid-paragraph (not after an EOL).
func (m *Machine) nextCellSameRow(c *arena.Context, heading bool) error {
	c.TrimTrailingSpaces()
	old := c.ListStack[c.ListDepth-1]
	endCell, endMarker := m.F.EndCell, "|"
	if arena.ListKind(old) == arena.ListTableHeadingCell {
		endCell, endMarker = m.F.EndHeaderCell, "|="
	}
	if err := m.emit(c, endCell); err != nil {
		return err
	}
	if err := m.parHook(c, endMarker, false); err != nil {
		return err
	}
	newMarker, beginCell := "|", m.F.BeginCell
	newVal := int(arena.ListTableNormalCell)
	if heading {
		newMarker, beginCell = "|=", m.F.BeginHeaderCell
		newVal = int(arena.ListTableHeadingCell)
	}
	if err := m.parHook(c, newMarker, true); err != nil {
		return err
	}
	if err := m.emit(c, beginCell); err != nil {
		return err
	}
	c.ListStack[c.ListDepth-1] = newVal
	return nil
}

// handleDD processes the ':' continuation of an open definition-list
// title into its definition half. continuing is true when reached from
// AfterEOLInParagraph, where a run of two DDs without an intervening DT
// inserts the format's EmptyDT filler and leading blanks are skipped
func (m *Machine) handleDD(c *arena.Context, continuing bool) error {
	c.Level = c.ListDepth
	if err := m.endPar(c, false); err != nil {
		return err
	}
	wasDT := arena.ListKind(c.ListStack[c.ListDepth-1]) == arena.ListDefinitionTitle
	if continuing {
		if !wasDT && m.F.EmptyDT != "" {
			if err := m.emit(c, m.F.EmptyDT); err != nil {
				return err
			}
		}
		skipBlanks(c)
	}
	if err := m.parHook(c, ";:", true); err != nil {
		return err
	}
	// The slot flips to the definition half before the begin fragment so
	// a CL list signature inside it reports ':' rather than ';'.
	c.ListStack[c.ListDepth-1] = int(arena.ListDefinitionDefinition)
	if err := m.emit(c, m.F.BeginDD); err != nil {
		return err
	}
	c.Level = 0
	return nil
}
