// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package page builds the immutable set of pre-rendered pages and
// matches requested paths against it.
package page

import (
	"bytes"
	"context"
	"fmt"

	"github.com/z5labs/prerender/config"
	"github.com/z5labs/prerender/render"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Page is a pre-rendered response.
type Page struct {
	// Path is matched as a literal prefix of requested paths.
	Path string

	StatusCode int
	Content    []byte
}

// Renderer renders the named template with the given variables.
type Renderer interface {
	Render(name string, vars map[string]any) ([]byte, error)
}

// BuildError occurs when a route fails to be rendered. The renderer's
// error is available via errors.As.
type BuildError struct {
	Index    int
	Path     string
	Template string
	Cause    error
}

// Error implements the error interface.
func (e BuildError) Error() string {
	return fmt.Sprintf("failed to build page %d (%q from %s): %s", e.Index, e.Path, e.Template, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e BuildError) Unwrap() error {
	return e.Cause
}

// Build renders every route in site.Server, in declaration order. The
// first failure aborts the whole build and no pages are returned.
func Build(ctx context.Context, site config.Site, r Renderer) (_ []Page, err error) {
	spanCtx, span := otel.Tracer("github.com/z5labs/prerender/page").Start(ctx, "page.Build")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "build failed")
		}
	}()

	pages := make([]Page, 0, len(site.Server))
	for i, route := range site.Server {
		if err := spanCtx.Err(); err != nil {
			return nil, err
		}

		vars := render.MergeVariables(route.Variables, site.Default.Variables)
		content, err := r.Render(route.TemplateFile, vars)
		if err != nil {
			return nil, BuildError{
				Index:    i,
				Path:     route.Request.Path,
				Template: route.TemplateFile,
				Cause:    err,
			}
		}

		pages = append(pages, Page{
			Path:       route.Request.Path,
			StatusCode: route.Request.Response,
			Content:    bytes.Clone(content),
		})
	}

	span.SetAttributes(attribute.Int("prerender.pages", len(pages)))
	return pages, nil
}
