// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	pages := []Page{
		{Path: "/hello", StatusCode: 200, Content: []byte("hello")},
		{Path: "/api/v1", StatusCode: 201, Content: []byte("v1")},
		{Path: "/api", StatusCode: 202, Content: []byte("api")},
		{Path: "/a", StatusCode: 200, Content: []byte("a")},
		{Path: "/", StatusCode: 404, Content: []byte("fallback")},
	}

	testCases := []struct {
		Name     string
		Path     string
		Expected string
	}{
		{Name: "exact path", Path: "/hello", Expected: "hello"},
		{Name: "sub path", Path: "/hello/anything", Expected: "hello"},
		{Name: "prefix is not segment aware", Path: "/abc", Expected: "a"},
		{Name: "earlier more specific prefix wins", Path: "/api/v1/users", Expected: "v1"},
		{Name: "later less specific prefix", Path: "/api/v2", Expected: "api"},
		{Name: "catch all", Path: "/other", Expected: "fallback"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			p, ok := Match(testCase.Path, pages)
			if !assert.True(t, ok) {
				return
			}
			assert.Equal(t, testCase.Expected, string(p.Content))
		})
	}

	t.Run("will report no match", func(t *testing.T) {
		t.Run("if no prefix matches", func(t *testing.T) {
			_, ok := Match("/other", pages[:4])
			assert.False(t, ok)
		})

		t.Run("if there are no pages", func(t *testing.T) {
			_, ok := Match("/", nil)
			assert.False(t, ok)
		})

		t.Run("if the request path is shorter than the prefix", func(t *testing.T) {
			_, ok := Match("/hell", pages[:1])
			assert.False(t, ok)
		})
	})

	t.Run("will respect order", func(t *testing.T) {
		t.Run("if a shorter prefix is declared first", func(t *testing.T) {
			ordered := []Page{
				{Path: "/", Content: []byte("root")},
				{Path: "/hello", Content: []byte("hello")},
			}

			p, ok := Match("/hello", ordered)
			assert.True(t, ok)
			assert.Equal(t, "root", string(p.Content))
		})
	})

	t.Run("will match every page by its own path or an earlier page", func(t *testing.T) {
		for i, want := range pages {
			p, ok := Match(want.Path, pages)
			if !assert.True(t, ok) {
				return
			}

			idx := indexOf(pages, p)
			assert.LessOrEqual(t, idx, i)
		}
	})
}

func indexOf(pages []Page, p Page) int {
	for i, candidate := range pages {
		if candidate.Path == p.Path {
			return i
		}
	}
	return -1
}

func TestDispatcher(t *testing.T) {
	t.Run("will not be affected by changes to the source slice", func(t *testing.T) {
		pages := []Page{
			{Path: "/hello", StatusCode: 200, Content: []byte("hello")},
		}
		d := NewDispatcher(pages)

		pages[0].Path = "/changed"
		pages[0].Content[0] = 'H'

		p, ok := d.Match("/hello")
		assert.True(t, ok)
		assert.Equal(t, "hello", string(p.Content))
		assert.Equal(t, 1, d.Len())
	})

	t.Run("will report no match", func(t *testing.T) {
		d := NewDispatcher(nil)

		_, ok := d.Match("/hello")
		assert.False(t, ok)
		assert.Equal(t, 0, d.Len())
	})
}
