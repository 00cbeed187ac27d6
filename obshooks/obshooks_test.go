// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package obshooks_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nme "github.com/aleutian-labs/nme"
	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/format"
	"github.com/aleutian-labs/nme/obshooks"
)

func TestObserver_CountsConstructs(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := obshooks.NewMetrics(reg)
	obs := obshooks.New(context.Background(), metrics)

	observed := obs.Install(format.HTML)
	res, err := nme.Translate([]byte("=H=\n**bold** text\n* item\n"),
		64*1024, 0, "\n", observed, 0)
	require.NoError(t, err)
	obs.Done(len(res.Output))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Translations))
	assert.Greater(t, testutil.ToFloat64(metrics.Divisions), 0.0)
	assert.Greater(t, testutil.ToFloat64(metrics.Chars), 0.0)
	assert.Greater(t, testutil.ToFloat64(metrics.Spans), 0.0)
}

func TestInstall_DoesNotMutateOriginal(t *testing.T) {
	obs := obshooks.New(context.Background(), nil)
	observed := obs.Install(format.HTML)
	assert.Nil(t, format.HTML.DivHook, "shared descriptor gained a hook")
	assert.NotNil(t, observed.DivHook)
	assert.NotSame(t, format.HTML, observed)
}

func TestInstall_ChainsExistingHooks(t *testing.T) {
	called := false
	base := *format.HTML
	base.ParHook = func(c *arena.Context, marker string, enter bool) error {
		called = true
		return nil
	}

	obs := obshooks.New(context.Background(), nil)
	observed := obs.Install(&base)
	_, err := nme.Translate([]byte("hello\n"), 64*1024, 0, "\n", observed, 0)
	require.NoError(t, err)
	assert.True(t, called, "pre-existing hook was not chained")
}

func TestStdoutProviders(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := obshooks.InstallStdoutProviders(&buf)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
