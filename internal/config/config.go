// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the CLI's defaults from ~/.nme/nme.yaml. The core
// engine takes all of these as plain arguments; this package only decides
// what the command line passes when a flag is not given, and fails fast
// on values that would otherwise surface as a confusing engine error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aleutian-labs/nme/option"
)

// Config holds the CLI defaults. Zero values mean "use the built-in
// default" throughout.
type Config struct {
	// Format is the default output format name.
	Format string `yaml:"format" validate:"omitempty,oneof=text text/compact null nme html rtf latex man"`
	// FontSize is the default font size passed to the engine; 0 keeps
	// the format's own default.
	FontSize int `yaml:"font_size" validate:"gte=0,lte=72"`
	// ArenaKB sizes the translation arena in KiB; 0 keeps the built-in
	// default.
	ArenaKB int `yaml:"arena_kb" validate:"gte=0,lte=1048576"`
	// EOL selects the output end-of-line sequence.
	EOL string `yaml:"eol" validate:"omitempty,oneof=lf crlf"`
	// Options lists option flag names applied to every translation.
	Options []string `yaml:"options" validate:"dive,oneof=no-preamble no-h1 number-h1 number-h2 no-definition-list no-indented-paragraph no-multiline-paragraph no-escape no-horizontal-rule no-link no-image no-table no-underline no-monospace no-subsuperscript no-bold no-italic no-plugin verbatim-as-monospace xref"`
	// LogLevel sets the CLI logger's minimum severity.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// optionNames maps config/flag spellings to option bits.
var optionNames = map[string]option.Flags{
	"no-preamble":             option.NoPreamble,
	"no-h1":                   option.NoH1,
	"number-h1":               option.NumberH1,
	"number-h2":               option.NumberH2,
	"no-definition-list":      option.NoDefinitionList,
	"no-indented-paragraph":   option.NoIndentedParagraph,
	"no-multiline-paragraph":  option.NoMultilinePar,
	"no-escape":               option.NoEscape,
	"no-horizontal-rule":      option.NoHorizontalRule,
	"no-link":                 option.NoLink,
	"no-image":                option.NoImage,
	"no-table":                option.NoTable,
	"no-underline":            option.NoUnderline,
	"no-monospace":            option.NoMonospace,
	"no-subsuperscript":       option.NoSubSuperscript,
	"no-bold":                 option.NoBold,
	"no-italic":               option.NoItalic,
	"no-plugin":               option.NoPlugin,
	"verbatim-as-monospace":   option.VerbatimAsMonospace,
	"xref":                    option.XRef,
}

// OptionNames returns the recognized option flag spellings, for help
// text and completion.
func OptionNames() []string {
	names := make([]string, 0, len(optionNames))
	for name := range optionNames {
		names = append(names, name)
	}
	return names
}

// ParseOptions folds a list of option names into a flag mask.
func ParseOptions(names []string) (option.Flags, error) {
	var flags option.Flags
	for _, name := range names {
		bit, ok := optionNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown option %q", name)
		}
		flags |= bit
	}
	return flags, nil
}

// OptionFlags folds the config's Options list into a flag mask.
func (c *Config) OptionFlags() (option.Flags, error) {
	return ParseOptions(c.Options)
}

// EOLString returns the configured end-of-line sequence, defaulting to
// "\n".
func (c *Config) EOLString() string {
	if c.EOL == "crlf" {
		return "\r\n"
	}
	return "\n"
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	return &Config{Format: "html", LogLevel: "info"}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nme", "nme.yaml")
}

// Load reads and validates the config at path. A missing file returns
// Default() without error; a malformed or invalid file returns an error
// naming the offending field.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates raw YAML config bytes.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}
