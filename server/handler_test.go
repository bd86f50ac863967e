// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package server

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/z5labs/prerender/internal/logging"
	"github.com/z5labs/prerender/page"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDispatcher() *page.Dispatcher {
	return page.NewDispatcher([]page.Page{
		{Path: "/hello", StatusCode: http.StatusOK, Content: []byte("Hi World")},
		{Path: "/teapot", StatusCode: http.StatusTeapot, Content: []byte("short and stout")},
		{Path: "/caf%C3%A9", StatusCode: http.StatusOK, Content: []byte("menu")},
	})
}

func TestHandler(t *testing.T) {
	t.Run("will respond with the matched page", func(t *testing.T) {
		testCases := []struct {
			Name   string
			Method string
			Path   string
			Status int
			Body   string
		}{
			{Name: "exact path", Method: http.MethodGet, Path: "/hello", Status: http.StatusOK, Body: "Hi World"},
			{Name: "sub path", Method: http.MethodGet, Path: "/hello/anything", Status: http.StatusOK, Body: "Hi World"},
			{Name: "post request", Method: http.MethodPost, Path: "/hello", Status: http.StatusOK, Body: "Hi World"},
			{Name: "configured status", Method: http.MethodGet, Path: "/teapot", Status: http.StatusTeapot, Body: "short and stout"},
			{Name: "query string is ignored", Method: http.MethodGet, Path: "/hello?name=x", Status: http.StatusOK, Body: "Hi World"},
			{Name: "percent encoded prefix", Method: http.MethodGet, Path: "/caf%C3%A9/today", Status: http.StatusOK, Body: "menu"},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				h := NewHandler(testDispatcher())

				w := httptest.NewRecorder()
				r := httptest.NewRequest(testCase.Method, testCase.Path, strings.NewReader("ignored"))
				h.ServeHTTP(w, r)

				resp := w.Result()
				assert.Equal(t, testCase.Status, resp.StatusCode)
				assert.Equal(t, "text/html", resp.Header.Get("Content-type"))

				b, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, testCase.Body, string(b))
			})
		}
	})

	t.Run("will respond with 404", func(t *testing.T) {
		t.Run("if no page matches", func(t *testing.T) {
			h := NewHandler(testDispatcher())

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/other", nil)
			h.ServeHTTP(w, r)

			resp := w.Result()
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))

			b, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, NotFoundBody, string(b))
		})
	})

	t.Run("will respond with 405", func(t *testing.T) {
		methods := []string{
			http.MethodPut,
			http.MethodDelete,
			http.MethodPatch,
			http.MethodHead,
		}

		for _, method := range methods {
			t.Run("if the method is "+method, func(t *testing.T) {
				h := NewHandler(testDispatcher())

				w := httptest.NewRecorder()
				r := httptest.NewRequest(method, "/hello", nil)
				h.ServeHTTP(w, r)

				resp := w.Result()
				assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
				assert.Equal(t, "GET, POST", resp.Header.Get("Allow"))
			})
		}
	})

	t.Run("will log the match decision", func(t *testing.T) {
		t.Run("if debug logging is enabled", func(t *testing.T) {
			var buf bytes.Buffer
			h := NewHandler(
				testDispatcher(),
				HandlerLogHandler(logging.NewHandler(&buf, logging.Options{Format: logging.Text, Debug: true})),
			)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello/world", nil))
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

			logs := buf.String()
			assert.Contains(t, logs, "page matched")
			assert.Contains(t, logs, "prefix=/hello")
			assert.Contains(t, logs, "no page matched")
			assert.Contains(t, logs, "handled request")
		})

		t.Run("but not if debug logging is disabled", func(t *testing.T) {
			var buf bytes.Buffer
			h := NewHandler(
				testDispatcher(),
				HandlerLogHandler(logging.NewHandler(&buf, logging.Options{Format: logging.Text})),
			)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))

			logs := buf.String()
			assert.NotContains(t, logs, "page matched")
			assert.Contains(t, logs, "handled request")
		})
	})
}

type panicWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
	fail   bool
}

func (w *panicWriter) Header() http.Header {
	return w.header
}

func (w *panicWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *panicWriter) Write(b []byte) (int, error) {
	if w.fail {
		w.fail = false
		panic(errors.New("connection reset"))
	}
	return w.body.Write(b)
}

func TestHandler_ServeHTTP(t *testing.T) {
	t.Run("will recover from a failure while writing the response", func(t *testing.T) {
		var buf bytes.Buffer
		h := &handler{
			pages: testDispatcher(),
			log:   slog.New(logging.NewHandler(&buf, logging.Options{Format: logging.Text})),
		}

		w := &panicWriter{header: make(http.Header), fail: true}
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))

		assert.Equal(t, http.StatusOK, w.status)
		assert.Contains(t, buf.String(), "failed to handle request")
		assert.Contains(t, buf.String(), "connection reset")
	})

	t.Run("will respond with 500", func(t *testing.T) {
		t.Run("if serving fails before the header is written", func(t *testing.T) {
			h := &handler{
				pages: nil,
				log:   slog.New(logging.Discard{}),
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))

			resp := w.Result()
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))

			b, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, InternalServerErrorBody, string(b))
		})
	})
}

func TestRequestHandlingError(t *testing.T) {
	cause := errors.New("boom")
	err := RequestHandlingError{Method: http.MethodGet, Path: "/hello", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to handle GET /hello: boom", err.Error())
}
