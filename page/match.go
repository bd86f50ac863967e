// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package page

import (
	"slices"
	"strings"
)

// Match returns the first page, in order, whose Path is a prefix of path.
// The comparison is a plain string prefix, so "/a" matches "/abc".
func Match(path string, pages []Page) (Page, bool) {
	for _, p := range pages {
		if strings.HasPrefix(path, p.Path) {
			return p, true
		}
	}
	return Page{}, false
}

// Dispatcher answers path lookups against a fixed, ordered set of pages.
// It is safe for concurrent use since its pages are never modified.
type Dispatcher struct {
	pages []Page
}

// NewDispatcher returns a Dispatcher over a copy of pages. Page order is
// significant: when several prefixes match, the earliest page wins.
func NewDispatcher(pages []Page) *Dispatcher {
	cp := make([]Page, len(pages))
	for i, p := range pages {
		p.Content = slices.Clone(p.Content)
		cp[i] = p
	}
	return &Dispatcher{pages: cp}
}

// Match returns the page answering path, if any.
func (d *Dispatcher) Match(path string) (Page, bool) {
	return Match(path, d.pages)
}

// Len returns the number of pages.
func (d *Dispatcher) Len() int {
	return len(d.pages)
}
