// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package nmelog provides structured logging for the nme CLI and the
// observability hook adapters.
//
// The core engine never logs (a translation is a single synchronous call
// with no hidden I/O); everything that surrounds it, the command-line
// wrapper, the config loader, and the hook adapters, logs through this
// package. It is a thin layer over the standard library's slog:
//
//   - Default: stderr output, following Unix CLI conventions
//   - Optional: a JSON log file alongside stderr
//   - Extensible: an Exporter receives each entry for forwarding
//
// Basic usage:
//
//	logger := nmelog.Default()
//	logger.Info("translating", "format", "html", "bytes", n)
//
// Logger is safe for concurrent use.
package nmelog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level represents log severity, ordered Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the level's conventional upper-case name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Entry is one log record handed to an Exporter.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Attrs   map[string]any
	Service string
}

// Exporter forwards log entries to an external destination. Export is
// called synchronously on the logging goroutine; implementations should
// buffer internally if forwarding is slow.
type Exporter interface {
	Export(ctx context.Context, entry Entry) error
	Flush(ctx context.Context) error
	Close() error
}

// Config parameterizes New.
type Config struct {
	// Level is the minimum severity to emit.
	Level Level
	// LogDir, when set, enables a JSON log file named
	// {service}_{date}.log inside it. Supports ~ expansion.
	LogDir string
	// Service names the component in log entries and log file names.
	Service string
	// Writer overrides the default stderr destination; used by tests.
	Writer io.Writer
	// Exporter, when set, additionally receives every entry.
	Exporter Exporter
}

// Logger is a leveled, structured logger writing to stderr (or an
// override writer), an optional file, and an optional Exporter.
type Logger struct {
	mu       sync.Mutex
	slogger  *slog.Logger
	level    Level
	service  string
	file     *os.File
	exporter Exporter
}

// New builds a Logger from config. Errors opening the log file degrade
// to stderr-only logging rather than failing; a CLI with a read-only
// home directory still needs its diagnostics.
func New(config Config) *Logger {
	w := config.Writer
	if w == nil {
		w = os.Stderr
	}
	l := &Logger{level: config.Level, service: config.Service, exporter: config.Exporter}

	handlers := []slog.Handler{
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: config.Level.toSlogLevel()}),
	}
	if config.LogDir != "" {
		if f, err := openLogFile(config.LogDir, config.Service); err == nil {
			l.file = f
			handlers = append(handlers,
				slog.NewJSONHandler(f, &slog.HandlerOptions{Level: config.Level.toSlogLevel()}))
		} else {
			fmt.Fprintf(w, "nmelog: file logging disabled: %v\n", err)
		}
	}
	l.slogger = slog.New(&multiHandler{handlers: handlers})
	return l
}

// Default returns a stderr-only Logger at Info level.
func Default() *Logger {
	return New(Config{Level: LevelInfo, Service: "nme"})
}

func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

// Slog exposes the underlying slog.Logger for libraries that want one.
func (l *Logger) Slog() *slog.Logger { return l.slogger }

// Close flushes and closes the log file and the exporter, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var firstErr error
	if l.exporter != nil {
		if err := l.exporter.Flush(context.Background()); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := l.exporter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if l.file != nil {
		if err := l.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		l.file = nil
	}
	return firstErr
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if level < l.level {
		return
	}
	l.slogger.Log(context.Background(), level.toSlogLevel(), msg, args...)
	if l.exporter != nil {
		_ = l.exporter.Export(context.Background(), Entry{
			Time:    time.Now(),
			Level:   level,
			Message: msg,
			Attrs:   argsToMap(args),
			Service: l.service,
		})
	}
}

// multiHandler fans a record out to several slog handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sub := range h.handlers {
		if sub.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, sub := range h.handlers {
		if sub.Enabled(ctx, r.Level) {
			if err := sub.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	subs := make([]slog.Handler, len(h.handlers))
	for i, sub := range h.handlers {
		subs[i] = sub.WithAttrs(attrs)
	}
	return &multiHandler{handlers: subs}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	subs := make([]slog.Handler, len(h.handlers))
	for i, sub := range h.handlers {
		subs[i] = sub.WithGroup(name)
	}
	return &multiHandler{handlers: subs}
}

func openLogFile(dir, service string) (*os.File, error) {
	dir = expandPath(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s_%s.log", service, time.Now().Format("2006-01-02"))
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func expandPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func argsToMap(args []any) map[string]any {
	m := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		m[key] = args[i+1]
	}
	return m
}
