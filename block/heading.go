// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package block

import "github.com/aleutian-labs/nme/option"

// maxNumberedHeadingLevels bounds how many leading heading levels carry a
// running item number: deeper levels always report item 0.
const maxNumberedHeadingLevels = 2

// nextHeading records entry into a section at headingLevel, setting its
// bit in m.HeadingFlags and clearing every deeper level's bit (so a later
// close-sections scan knows which ancestor levels are still open), and
// bumps the running counter for headingLevel while resetting every deeper
// counter to zero.
func (m *Machine) nextHeading(level int) {
	if level >= 1 && level <= 32 {
		m.HeadingFlags |= 1 << uint(level-1)
		m.HeadingFlags &^= ^uint32(0) << uint(level)
	}
	if level >= 1 && level <= maxNumberedHeadingLevels {
		m.HeadingNum[level-1]++
		for i := level; i < maxNumberedHeadingLevels; i++ {
			m.HeadingNum[i] = 0
		}
	}
}

// headingItem returns the numbered-heading value to report as the hook's
// item argument: the running counter when the format was asked to number
// this level, otherwise 0.
func (m *Machine) headingItem(level int) int {
	if level < 1 || level > maxNumberedHeadingLevels {
		return 0
	}
	want := option.NumberH2
	if level == 1 {
		want = option.NumberH1
	}
	if !m.Opts.Has(want) {
		return 0
	}
	return m.HeadingNum[level-1]
}

// sectionFlagSet reports whether m.HeadingFlags marks level as a still-open
// ancestor section.
func (m *Machine) sectionFlagSet(level int) bool {
	if level < 1 || level > 32 {
		return false
	}
	return m.HeadingFlags&(1<<uint(level-1)) != 0
}
