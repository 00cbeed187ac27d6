// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package nmelog

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
		{Level(-1), "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Service: "test", Writer: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("sub-threshold messages were emitted: %q", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("expected warn and error messages in output, got %q", out)
	}
}

func TestLogger_Attrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Service: "test", Writer: &buf})

	logger.Info("translating", "format", "html", "bytes", 42)

	out := buf.String()
	if !strings.Contains(out, "format=html") || !strings.Contains(out, "bytes=42") {
		t.Errorf("expected structured attrs in output, got %q", out)
	}
}

// captureExporter records entries for assertions.
type captureExporter struct {
	mu      sync.Mutex
	entries []Entry
}

func (e *captureExporter) Export(ctx context.Context, entry Entry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

func (e *captureExporter) Flush(ctx context.Context) error { return nil }
func (e *captureExporter) Close() error                    { return nil }

func TestLogger_Exporter(t *testing.T) {
	var buf bytes.Buffer
	exp := &captureExporter{}
	logger := New(Config{Level: LevelInfo, Service: "cli", Writer: &buf, Exporter: exp})

	logger.Info("one", "k", "v")
	logger.Debug("filtered")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	if len(exp.entries) != 1 {
		t.Fatalf("exporter received %d entries, want 1", len(exp.entries))
	}
	got := exp.entries[0]
	if got.Message != "one" || got.Service != "cli" || got.Attrs["k"] != "v" {
		t.Errorf("unexpected exported entry: %+v", got)
	}
}

func TestArgsToMap_OddArgs(t *testing.T) {
	m := argsToMap([]any{"a", 1, "dangling"})
	if len(m) != 1 || m["a"] != 1 {
		t.Errorf("argsToMap = %v, want map[a:1]", m)
	}
}
