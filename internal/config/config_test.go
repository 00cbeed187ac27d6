// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleutian-labs/nme/option"
)

func TestParse_Valid(t *testing.T) {
	c, err := Parse([]byte(`
format: latex
font_size: 12
eol: crlf
options:
  - no-h1
  - number-h2
log_level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, "latex", c.Format)
	assert.Equal(t, 12, c.FontSize)
	assert.Equal(t, "\r\n", c.EOLString())

	flags, err := c.OptionFlags()
	require.NoError(t, err)
	assert.True(t, flags.Has(option.NoH1))
	assert.True(t, flags.Has(option.NumberH2))
	assert.False(t, flags.Has(option.NoBold))
}

func TestParse_RejectsBadFormat(t *testing.T) {
	_, err := Parse([]byte("format: pdf\n"))
	assert.Error(t, err)
}

func TestParse_RejectsBadOption(t *testing.T) {
	_, err := Parse([]byte("options: [no-such-thing]\n"))
	assert.Error(t, err)
}

func TestParse_RejectsFontSizeOutOfRange(t *testing.T) {
	_, err := Parse([]byte("font_size: 4096\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFileIsDefault(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestParseOptions_Unknown(t *testing.T) {
	_, err := ParseOptions([]string{"bogus"})
	assert.Error(t, err)
}
