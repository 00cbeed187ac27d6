// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	nme "github.com/aleutian-labs/nme"
	"github.com/aleutian-labs/nme/autoconvert"
	"github.com/aleutian-labs/nme/format"
	"github.com/aleutian-labs/nme/internal/config"
	"github.com/aleutian-labs/nme/obshooks"
	"github.com/aleutian-labs/nme/option"
	"github.com/aleutian-labs/nme/plugins"
)

// defaultArenaKB sizes the first translation attempt; on
// ErrNotEnoughMemory the arena doubles up to maxArenaKB before giving up.
const (
	defaultArenaKB = 256
	maxArenaKB     = 1 << 20
)

func formatNames() []string {
	var names []string
	for _, d := range format.Bundled() {
		names = append(names, d.Name)
	}
	return names
}

type convertFlags struct {
	to          string
	output      string
	optionNames []string
	fontSize    int
	eol         string
	arenaKB     int
	plugins     bool
	autolink    bool
	trace       bool
	watch       bool
}

func newConvertCmd(a *app) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Translate NME markup from a file or stdin",
		Long: "Translate NME markup to the chosen output format.\n" +
			"With no file argument, reads from standard input.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runConvert(a, cmd, args, &flags)
			if err != nil {
				printError(err)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&flags.to, "to", "t", "", "output format (default from config, else html)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringSliceVar(&flags.optionNames, "option", nil,
		"translation option, repeatable (e.g. no-h1, xref)")
	cmd.Flags().IntVar(&flags.fontSize, "font-size", 0, "default font size (0: format default)")
	cmd.Flags().StringVar(&flags.eol, "eol", "", "end-of-line: lf or crlf")
	cmd.Flags().IntVar(&flags.arenaKB, "arena-kb", 0, "initial arena size in KiB")
	cmd.Flags().BoolVar(&flags.plugins, "plugins", false, "enable the bundled example plugins")
	cmd.Flags().BoolVar(&flags.autolink, "autolink", false, "auto-link bare URLs and CamelCase words")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "emit otel spans and metrics to stderr")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "re-translate whenever the input file changes")

	return cmd
}

func resolveDescriptor(a *app, flags *convertFlags) (*format.Descriptor, error) {
	name := flags.to
	if name == "" {
		name = a.cfg.Format
	}
	if name == "" {
		name = "html"
	}
	d, ok := format.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown format %q (try: %v)", name, formatNames())
	}
	if flags.plugins || flags.autolink {
		custom := *d
		if flags.plugins {
			custom.Plugins = plugins.Entries()
		}
		if flags.autolink {
			custom.Autoconverts = autoconvert.Entries()
		}
		d = &custom
	}
	return d, nil
}

func resolveOptions(a *app, flags *convertFlags) (option.Flags, error) {
	opts, err := a.cfg.OptionFlags()
	if err != nil {
		return 0, err
	}
	fromFlags, err := config.ParseOptions(flags.optionNames)
	if err != nil {
		return 0, err
	}
	return opts | fromFlags, nil
}

func resolveEOL(a *app, flags *convertFlags) string {
	if flags.eol == "crlf" {
		return "\r\n"
	}
	if flags.eol == "lf" {
		return "\n"
	}
	return a.cfg.EOLString()
}

// translate runs one conversion, growing the arena on demand.
func translate(a *app, input []byte, d *format.Descriptor, opts option.Flags, eol string, fontSize, arenaKB int) (nme.Result, error) {
	if arenaKB <= 0 {
		arenaKB = a.cfg.ArenaKB
	}
	if arenaKB <= 0 {
		arenaKB = defaultArenaKB
	}
	for kb := arenaKB; kb <= maxArenaKB; kb *= 2 {
		res, err := nme.Translate(input, kb*1024, opts, eol, d, fontSize)
		if errors.Is(err, nme.ErrNotEnoughMemory) {
			a.logger.Debug("arena too small, retrying", "kb", kb)
			continue
		}
		return res, err
	}
	return nme.Result{}, fmt.Errorf("input needs more than %d KiB of arena", maxArenaKB)
}

func runConvert(a *app, cmd *cobra.Command, args []string, flags *convertFlags) error {
	d, err := resolveDescriptor(a, flags)
	if err != nil {
		return err
	}
	opts, err := resolveOptions(a, flags)
	if err != nil {
		return err
	}
	eol := resolveEOL(a, flags)
	fontSize := flags.fontSize
	if fontSize == 0 {
		fontSize = a.cfg.FontSize
	}
	if fontSize == 0 {
		fontSize = d.DefaultFontSize
	}

	var metrics *obshooks.Metrics
	if flags.trace {
		shutdown, err := obshooks.InstallStdoutProviders(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer shutdown(context.Background()) //nolint:errcheck
	}

	runOnce := func() error {
		input, err := readInput(args)
		if err != nil {
			return err
		}
		var observed = d
		var obs *obshooks.Observer
		if flags.trace {
			obs = obshooks.New(cmd.Context(), metrics)
			observed = obs.Install(d)
		}
		res, err := translate(a, input, observed, opts, eol, fontSize, flags.arenaKB)
		if err != nil {
			return err
		}
		if obs != nil {
			obs.Done(len(res.Output))
		}
		a.logger.Debug("translated",
			"format", observed.Name, "in_bytes", len(input),
			"out_bytes", len(res.Output), "out_ucs16", res.UCS16Len)
		return writeOutput(cmd.OutOrStdout(), flags.output, res.Output)
	}

	if err := runOnce(); err != nil {
		return err
	}
	if !flags.watch {
		return nil
	}
	if len(args) == 0 {
		return errors.New("--watch needs a file argument")
	}
	return watchAndRerun(a, args[0], runOnce)
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// watchAndRerun re-runs the translation whenever the source file is
// written, until interrupted.
func watchAndRerun(a *app, path string, run func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a.logger.Info("watching", "file", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := run(); err != nil {
				// Keep watching: a transient half-written file should
				// not kill the loop.
				printError(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", "error", err)
		}
	}
}
