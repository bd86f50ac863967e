// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package slogfield provides the slog attributes shared across prerender logs.
package slogfield

import (
	"log/slog"
)

// Sections used to group log lines by phase.
const (
	SectionBuild  = "build"
	SectionServer = "server"
)

// Bool returns an slog.Attr for a bool.
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Error returns an slog.Attr for a error.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// ErrorKind returns an slog.Attr naming the kind of a failure.
func ErrorKind(kind string) slog.Attr {
	return slog.String("error_kind", kind)
}

// String returns an slog.Attr for a string.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int returns an slog.Attr for a int.
func Int(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Section returns an slog.Attr for the phase a log line belongs to.
func Section(name string) slog.Attr {
	return slog.String("section", name)
}

// Path returns an slog.Attr for a request or page path.
func Path(p string) slog.Attr {
	return slog.String("path", p)
}

// StatusCode returns an slog.Attr for a HTTP status code.
func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}
