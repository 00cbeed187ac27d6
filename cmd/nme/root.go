// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aleutian-labs/nme/internal/config"
	"github.com/aleutian-labs/nme/internal/nmelog"
)

// app carries the pieces every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *nmelog.Logger
}

var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

// printError writes err to stderr, colored when stderr is a terminal.
func printError(err error) {
	msg := fmt.Sprintf("nme: %v", err)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		msg = errStyle.Render(msg)
	}
	fmt.Fprintln(os.Stderr, msg)
}

func logLevel(name string) nmelog.Level {
	switch name {
	case "debug":
		return nmelog.LevelDebug
	case "warn":
		return nmelog.LevelWarn
	case "error":
		return nmelog.LevelError
	default:
		return nmelog.LevelInfo
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var configPath, logLevelFlag string

	root := &cobra.Command{
		Use:           "nme",
		Short:         "Convert wiki-style markup between formats",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = config.DefaultPath()
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				printError(err)
				return err
			}
			a.cfg = cfg
			level := cfg.LogLevel
			if logLevelFlag != "" {
				level = logLevelFlag
			}
			a.logger = nmelog.New(nmelog.Config{Level: logLevel(level), Service: "nme"})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.nme/nme.yaml)")
	root.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newFormatsCmd())

	return root
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the bundled output formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range formatNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
