// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNewHandler(t *testing.T) {
	t.Run("will drop debug records", func(t *testing.T) {
		t.Run("if debug is disabled", func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(NewHandler(&buf, Options{Format: Text}))

			log.Debug("hidden")
			log.Info("shown")

			assert.NotContains(t, buf.String(), "hidden")
			assert.Contains(t, buf.String(), "shown")
		})
	})

	t.Run("will keep debug records", func(t *testing.T) {
		t.Run("if debug is enabled", func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(NewHandler(&buf, Options{Format: Text, Debug: true}))

			log.Debug("shown")

			assert.Contains(t, buf.String(), "shown")
		})
	})

	t.Run("will add trace ids", func(t *testing.T) {
		t.Run("if the context has a valid span", func(t *testing.T) {
			traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
			require.NoError(t, err)
			spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
			require.NoError(t, err)

			ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
				TraceID: traceID,
				SpanID:  spanID,
			}))

			var buf bytes.Buffer
			log := slog.New(NewHandler(&buf, Options{Format: JSON}))
			log.InfoContext(ctx, "hello")

			var record struct {
				Msg  string `json:"msg"`
				Otel struct {
					TraceID string `json:"trace_id"`
					SpanID  string `json:"span_id"`
				} `json:"otel"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			assert.Equal(t, "hello", record.Msg)
			assert.Equal(t, traceID.String(), record.Otel.TraceID)
			assert.Equal(t, spanID.String(), record.Otel.SpanID)
		})
	})
}

func TestFormat_UnmarshalText(t *testing.T) {
	t.Run("will accept known formats", func(t *testing.T) {
		var f Format
		require.NoError(t, f.UnmarshalText([]byte("JSON")))
		assert.Equal(t, JSON, f)
	})

	t.Run("will return an UnknownFormatError", func(t *testing.T) {
		var f Format
		err := f.UnmarshalText([]byte("xml"))

		var uerr UnknownFormatError
		if !assert.ErrorAs(t, err, &uerr) {
			return
		}
		assert.Equal(t, "xml", uerr.Format)
	})
}
