// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package logging builds the slog.Handler used by prerender.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// Format selects how log records are encoded.
type Format string

// Supported formats.
const (
	Text Format = "text"
	JSON Format = "json"
)

// UnknownFormatError occurs when parsing an unsupported Format.
type UnknownFormatError struct {
	Format string
}

// Error implements the error interface.
func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown log format: %q", e.Format)
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (f *Format) UnmarshalText(b []byte) error {
	switch s := Format(strings.ToLower(string(b))); s {
	case Text, JSON:
		*f = s
		return nil
	default:
		return UnknownFormatError{Format: string(b)}
	}
}

// Options configures NewHandler.
type Options struct {
	Format Format
	Debug  bool
}

// NewHandler returns a handler writing to w. Debug records are only
// emitted when opts.Debug is set. Records logged with a context holding a
// valid span carry its trace and span IDs.
func NewHandler(w io.Writer, opts Options) slog.Handler {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	ho := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch opts.Format {
	case JSON:
		h = slog.NewJSONHandler(w, ho)
	default:
		h = slog.NewTextHandler(w, ho)
	}
	return &traceHandler{slog: h}
}

type traceHandler struct {
	slog slog.Handler
}

func (h *traceHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

func (h *traceHandler) Handle(ctx context.Context, record slog.Record) error {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return h.slog.Handle(ctx, record)
	}

	r := record.Clone()
	r.AddAttrs(
		slog.Group(
			"otel",
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		),
	)
	return h.slog.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{slog: h.slog.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{slog: h.slog.WithGroup(name)}
}

// Discard is a slog.Handler which drops every record.
type Discard struct{}

func (Discard) Enabled(context.Context, slog.Level) bool  { return false }
func (Discard) Handle(context.Context, slog.Record) error { return nil }
func (h Discard) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h Discard) WithGroup(string) slog.Handler           { return h }
