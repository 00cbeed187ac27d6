// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package obshooks implements the format descriptor's division,
// paragraph, span, and character hook callbacks as an OpenTelemetry and
// Prometheus observer: one otel span per division, counters for
// paragraph-level constructs, inline styles, and characters.
//
// The hooks run synchronously inside Translate, so an Observer must not
// be shared between concurrent translations; create one per call and
// install it on a copy of the format descriptor via Install.
package obshooks

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/aleutian-labs/nme/arena"
	"github.com/aleutian-labs/nme/format"
)

const instrumentationName = "github.com/aleutian-labs/nme/obshooks"

// Metrics is the Prometheus side of the observer, for a long-running
// host process that embeds the engine repeatedly.
type Metrics struct {
	Translations prometheus.Counter
	Divisions    prometheus.Counter
	Spans        prometheus.Counter
	Chars        prometheus.Counter
	OutputBytes  prometheus.Histogram
}

// NewMetrics builds and registers the metric set on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Translations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nme", Name: "translations_total",
			Help: "Completed translation runs.",
		}),
		Divisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nme", Name: "divisions_total",
			Help: "Block-level constructs entered (headings, lists, tables).",
		}),
		Spans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nme", Name: "style_spans_total",
			Help: "Inline style spans opened.",
		}),
		Chars: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nme", Name: "chars_total",
			Help: "Source characters written through the paragraph encoder.",
		}),
		OutputBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nme", Name: "output_bytes",
			Help:    "Formatted output size per translation.",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		}),
	}
	reg.MustRegister(m.Translations, m.Divisions, m.Spans, m.Chars, m.OutputBytes)
	return m
}

// Observer wires the hook callbacks of one translation to otel and
// Prometheus. The zero value is not useful; use New.
type Observer struct {
	ctx     context.Context
	tracer  trace.Tracer
	metrics *Metrics

	divCounter  metric.Int64Counter
	charCounter metric.Int64Counter

	spanStack []trace.Span
}

// New builds an Observer using the globally registered otel providers.
// metrics may be nil to skip the Prometheus side.
func New(ctx context.Context, metrics *Metrics) *Observer {
	meter := otel.Meter(instrumentationName)
	divCounter, _ := meter.Int64Counter("nme.divisions",
		metric.WithDescription("Block-level constructs entered."))
	charCounter, _ := meter.Int64Counter("nme.chars",
		metric.WithDescription("Source characters emitted."))
	return &Observer{
		ctx:         ctx,
		tracer:      otel.Tracer(instrumentationName),
		metrics:     metrics,
		divCounter:  divCounter,
		charCounter: charCounter,
	}
}

// Install returns a copy of d with the observer's hooks chained in front
// of any hooks d already carries. d itself is not modified, keeping the
// original descriptor sharable.
func (o *Observer) Install(d *format.Descriptor) *format.Descriptor {
	installed := *d
	prevDiv, prevPar, prevSpan, prevChar := d.DivHook, d.ParHook, d.SpanHook, d.CharHook

	installed.DivHook = func(c *arena.Context, level, item int, marker string, enter bool) error {
		o.division(c, level, item, marker, enter)
		if prevDiv != nil {
			return prevDiv(c, level, item, marker, enter)
		}
		return nil
	}
	installed.ParHook = func(c *arena.Context, marker string, enter bool) error {
		if enter {
			o.divCounter.Add(o.ctx, 1, metric.WithAttributes(attribute.String("marker", marker)))
		}
		if prevPar != nil {
			return prevPar(c, marker, enter)
		}
		return nil
	}
	installed.SpanHook = func(c *arena.Context, style arena.Style, enter bool) error {
		if enter && o.metrics != nil {
			o.metrics.Spans.Inc()
		}
		if prevSpan != nil {
			return prevSpan(c, style, enter)
		}
		return nil
	}
	installed.CharHook = func(c *arena.Context, r rune) error {
		o.charCounter.Add(o.ctx, 1)
		if o.metrics != nil {
			o.metrics.Chars.Inc()
		}
		if prevChar != nil {
			return prevChar(c, r)
		}
		return nil
	}
	return &installed
}

// division opens an otel span on enter and closes the innermost one on
// exit. Divisions nest strictly (list levels, heading sections), so a
// stack mirrors the engine's own nesting.
func (o *Observer) division(c *arena.Context, level, item int, marker string, enter bool) {
	if enter {
		_, span := o.tracer.Start(o.ctx, "nme.div",
			trace.WithAttributes(
				attribute.String("marker", marker),
				attribute.Int("level", level),
				attribute.Int("item", item),
				attribute.String("request_id", c.RequestID),
				attribute.Int("src_offset", c.SourceOffset()),
			))
		o.spanStack = append(o.spanStack, span)
		if o.metrics != nil {
			o.metrics.Divisions.Inc()
		}
		return
	}
	if n := len(o.spanStack); n > 0 {
		o.spanStack[n-1].End()
		o.spanStack = o.spanStack[:n-1]
	}
}

// Done records a finished translation and ends any spans left open by
// constructs that ran to end of input.
func (o *Observer) Done(outputBytes int) {
	for i := len(o.spanStack) - 1; i >= 0; i-- {
		o.spanStack[i].End()
	}
	o.spanStack = o.spanStack[:0]
	if o.metrics != nil {
		o.metrics.Translations.Inc()
		o.metrics.OutputBytes.Observe(float64(outputBytes))
	}
}
