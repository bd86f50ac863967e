// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package server answers HTTP requests from a pre-built page set.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/z5labs/prerender/internal/logging"
	"github.com/z5labs/prerender/internal/slogfield"
	"github.com/z5labs/prerender/internal/try"
	"github.com/z5labs/prerender/page"
)

// Fixed response bodies.
const (
	NotFoundBody            = "Requested page is not available."
	InternalServerErrorBody = "Internal Server Error"
)

const contentTypeHTML = "text/html"

// RequestHandlingError occurs when a response could not be produced
// for a single request. It never reaches the client.
type RequestHandlingError struct {
	Method string
	Path   string
	Cause  error
}

// Error implements the error interface.
func (e RequestHandlingError) Error() string {
	return fmt.Sprintf("failed to handle %s %s: %s", e.Method, e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e RequestHandlingError) Unwrap() error {
	return e.Cause
}

type handlerOptions struct {
	logHandler slog.Handler
}

// HandlerOption configures NewHandler.
type HandlerOption func(*handlerOptions)

// HandlerLogHandler sets the slog.Handler used for request logs.
func HandlerLogHandler(h slog.Handler) HandlerOption {
	return func(ho *handlerOptions) {
		ho.logHandler = h
	}
}

type handler struct {
	pages *page.Dispatcher
	log   *slog.Logger
}

// NewHandler returns a http.Handler serving the pages of d. Only GET and
// POST requests are accepted, on any path.
func NewHandler(d *page.Dispatcher, opts ...HandlerOption) http.Handler {
	ho := &handlerOptions{
		logHandler: logging.Discard{},
	}
	for _, opt := range opts {
		opt(ho)
	}

	log := slog.New(ho.logHandler).With(slogfield.Section(slogfield.SectionServer))
	h := &handler{
		pages: d,
		log:   log,
	}
	return Request(h, ForMethods(log, http.MethodGet, http.MethodPost))
}

// ServeHTTP implements the http.Handler interface.
func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rw := &responseWriter{ResponseWriter: w}

	err := h.serve(rw, r)
	if err != nil {
		herr := RequestHandlingError{
			Method: r.Method,
			Path:   r.URL.Path,
			Cause:  err,
		}
		h.log.ErrorContext(ctx, "failed to handle request", slogfield.Error(herr))
		if !rw.wroteHeader {
			writeHTML(rw, http.StatusInternalServerError, []byte(InternalServerErrorBody))
		}
	}

	h.log.InfoContext(
		ctx,
		"handled request",
		slogfield.String("method", r.Method),
		slogfield.Path(r.URL.EscapedPath()),
		slogfield.StatusCode(rw.status),
	)
}

func (h *handler) serve(w http.ResponseWriter, r *http.Request) (err error) {
	defer try.Recover(&err)

	ctx := r.Context()
	// Prefixes are matched against the path as it was sent, percent
	// encoding included.
	path := r.URL.EscapedPath()

	p, ok := h.pages.Match(path)
	if !ok {
		h.log.DebugContext(ctx, "no page matched", slogfield.Path(path))
		_, err = writeHTML(w, http.StatusNotFound, []byte(NotFoundBody))
		return err
	}

	h.log.DebugContext(
		ctx,
		"page matched",
		slogfield.Path(path),
		slogfield.String("prefix", p.Path),
		slogfield.StatusCode(p.StatusCode),
	)
	_, err = writeHTML(w, p.StatusCode, p.Content)
	return err
}

func writeHTML(w http.ResponseWriter, status int, body []byte) (int, error) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	return w.Write(body)
}

type responseWriter struct {
	http.ResponseWriter

	wroteHeader bool
	status      int
}

func (w *responseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}
