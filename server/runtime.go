// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/z5labs/prerender/internal/logging"
	"github.com/z5labs/prerender/internal/slogfield"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

type runtimeOptions struct {
	host       string
	port       uint
	logHandler slog.Handler
	h          http.Handler
	listen     func(string, string) (net.Listener, error)
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*runtimeOptions)

// ListenOn configures the address and port the HTTP server binds to.
//
// Default is 0.0.0.0:8090.
func ListenOn(host string, port uint) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.host = host
		ro.port = port
	}
}

// LogHandler sets the slog.Handler used by the Runtime.
func LogHandler(h slog.Handler) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.logHandler = h
	}
}

// Handler sets the http.Handler serving every request.
func Handler(h http.Handler) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.h = h
	}
}

// ListenFunc replaces net.Listen for creating the server's listener.
func ListenFunc(f func(network, addr string) (net.Listener, error)) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.listen = f
	}
}

// ListenError occurs when the server fails to bind its address.
type ListenError struct {
	Addr  string
	Cause error
}

// Error implements the error interface.
func (e ListenError) Error() string {
	return fmt.Sprintf("failed to listen on %s: %s", e.Addr, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e ListenError) Unwrap() error {
	return e.Cause
}

// Runtime runs a HTTP server until its context is cancelled.
type Runtime struct {
	addr   string
	listen func(string, string) (net.Listener, error)

	log *slog.Logger
	h   http.Handler
}

// NewRuntime returns a Runtime. Without a Handler option every request
// receives 404.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	ro := &runtimeOptions{
		host:       "0.0.0.0",
		port:       8090,
		logHandler: logging.Discard{},
		h:          http.NotFoundHandler(),
		listen:     net.Listen,
	}
	for _, opt := range opts {
		opt(ro)
	}

	return &Runtime{
		addr:   net.JoinHostPort(ro.host, strconv.FormatUint(uint64(ro.port), 10)),
		listen: ro.listen,
		log:    slog.New(ro.logHandler).With(slogfield.Section(slogfield.SectionServer)),
		h:      ro.h,
	}
}

// Run listens for connections and serves them concurrently. When ctx is
// cancelled the server is shut down gracefully and Run returns nil.
func (rt *Runtime) Run(ctx context.Context) error {
	ls, err := rt.listen("tcp", rt.addr)
	if err != nil {
		rt.log.ErrorContext(ctx, "failed to listen for connections", slogfield.Error(err))
		return ListenError{Addr: rt.addr, Cause: err}
	}

	s := &http.Server{
		Handler: otelhttp.NewHandler(rt.h, "prerender"),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer rt.log.Info("shut down server")

		rt.log.Info("shutting down server")
		return s.Shutdown(ctx)
	})
	g.Go(func() error {
		rt.log.Info("listening", slogfield.String("addr", ls.Addr().String()))
		return s.Serve(ls)
	})

	err = g.Wait()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	rt.log.ErrorContext(ctx, "server encountered unexpected error", slogfield.Error(err))
	return err
}
