// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package environ resolves which process environment variables are
// exposed to page templates.
package environ

import (
	"strings"

	"github.com/z5labs/prerender/config"
)

// Resolve returns every entry in source whose key starts with prefix.
// An empty prefix matches every key. The returned map is always non-nil
// and never shares storage with source.
func Resolve(prefix string, source map[string]string) map[string]string {
	vars := make(map[string]string)
	for k, v := range source {
		if strings.HasPrefix(k, prefix) {
			vars[k] = v
		}
	}
	return vars
}

// FromPairs converts KEY=VALUE pairs, as returned by [os.Environ], into a map.
// Pairs without a '=' are skipped.
func FromPairs(pairs []string) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return m
}

// Lookup captures the environment once and returns the variables the site
// defaults allow templates to see. It returns an empty map if exposing
// the environment is disabled.
func Lookup(defaults config.Defaults, environ func() []string) map[string]string {
	if !defaults.Environment {
		return map[string]string{}
	}
	return Resolve(defaults.EnvironmentFilter, FromPairs(environ()))
}
