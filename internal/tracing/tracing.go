// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package tracing initializes the global OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Exporter selects where spans are sent.
type Exporter string

// Supported exporters.
const (
	None   Exporter = "none"
	Stdout Exporter = "stdout"
	OTLP   Exporter = "otlp"
)

// UnknownExporterError occurs when parsing an unsupported Exporter.
type UnknownExporterError struct {
	Exporter string
}

// Error implements the error interface.
func (e UnknownExporterError) Error() string {
	return fmt.Sprintf("unknown trace exporter: %q", e.Exporter)
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (e *Exporter) UnmarshalText(b []byte) error {
	switch s := Exporter(strings.ToLower(string(b))); s {
	case "", None:
		*e = None
	case Stdout, OTLP:
		*e = s
	default:
		return UnknownExporterError{Exporter: string(b)}
	}
	return nil
}

// Config configures Init.
type Config struct {
	ServiceName string
	Exporter    Exporter

	// Endpoint is the OTLP gRPC collector address. If empty, the
	// exporter falls back to the standard OTEL_EXPORTER_OTLP_* variables.
	Endpoint string

	// Out is where the stdout exporter writes. Default is os.Stdout.
	Out io.Writer
}

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init installs a global tracer provider for cfg.Exporter. With the None
// exporter the global provider is left untouched.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	var exporter sdktrace.SpanExporter
	var err error
	switch cfg.Exporter {
	case "", None:
		return noopShutdown, nil
	case Stdout:
		out := cfg.Out
		if out == nil {
			out = os.Stdout
		}
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(out))
	case OTLP:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithInsecure()}
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(cfg.Endpoint))
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	default:
		return nil, UnknownExporterError{Exporter: string(cfg.Exporter)}
	}
	if err != nil {
		return nil, err
	}

	res, err := resource.New(
		ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}
