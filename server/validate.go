// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/z5labs/prerender/internal/slogfield"
)

// Validator represents an http.Request validator.
type Validator interface {
	Validate(http.ResponseWriter, *http.Request) bool
}

// ValidatorFunc implements Validator for funcs.
type ValidatorFunc func(http.ResponseWriter, *http.Request) bool

// Validate implements the Validator interface.
func (f ValidatorFunc) Validate(w http.ResponseWriter, r *http.Request) bool {
	return f(w, r)
}

// ValidatingHandler applies request validators before passing the
// request to a wrapped http.Handler.
type ValidatingHandler struct {
	validators []Validator
	base       http.Handler
}

// Request wraps the given http.Handler with request validators.
func Request(h http.Handler, validators ...Validator) *ValidatingHandler {
	return &ValidatingHandler{
		validators: validators,
		base:       h,
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *ValidatingHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	for _, validator := range h.validators {
		if !validator.Validate(w, req) {
			return
		}
	}
	h.base.ServeHTTP(w, req)
}

// ForMethods rejects requests whose method is not one of the given
// with 405 Method Not Allowed.
func ForMethods(log *slog.Logger, methods ...string) Validator {
	allow := strings.Join(methods, ", ")
	return ValidatorFunc(func(w http.ResponseWriter, r *http.Request) bool {
		for _, method := range methods {
			if method == r.Method {
				return true
			}
		}

		log.InfoContext(
			r.Context(),
			"rejected request method",
			slogfield.String("method", r.Method),
			slogfield.Path(r.URL.Path),
		)
		w.Header().Set("Allow", allow)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	})
}
