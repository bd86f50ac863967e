// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package prerender

import (
	"context"
	"fmt"

	"github.com/z5labs/prerender/config"
)

// App represents a built site which is ready to run.
type App interface {
	Run(context.Context) error
}

// AppBuilder represents anything which can build an App from a config.
type AppBuilder[T any] interface {
	Build(ctx context.Context, cfg T) (App, error)
}

// AppBuilderFunc is a functional implementation of
// the AppBuilder interface.
type AppBuilderFunc[T any] func(context.Context, T) (App, error)

// Build implements the AppBuilder interface.
func (f AppBuilderFunc[T]) Build(ctx context.Context, cfg T) (App, error) {
	return f(ctx, cfg)
}

// Run loads and validates the site config from src, uses builder to build
// the App and, lastly, runs it. Nothing is built unless the whole config
// is valid and nothing is run unless every page was built.
func Run(ctx context.Context, builder AppBuilder[config.Site], src config.Source) error {
	site, err := config.Load(src)
	if err != nil {
		return ConfigLoadError{Cause: err}
	}

	app, err := builder.Build(ctx, site)
	if err != nil {
		return AppBuildError{Cause: err}
	}

	err = app.Run(ctx)
	if err != nil {
		return AppRunError{Cause: err}
	}
	return nil
}

// ConfigLoadError
type ConfigLoadError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ConfigLoadError) Error() string {
	return fmt.Sprintf("failed to load site config: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigLoadError) Unwrap() error {
	return e.Cause
}

// AppBuildError
type AppBuildError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e AppBuildError) Error() string {
	return fmt.Sprintf("failed to build site: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e AppBuildError) Unwrap() error {
	return e.Cause
}

// AppRunError
type AppRunError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e AppRunError) Error() string {
	return fmt.Sprintf("failed to run app: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e AppRunError) Unwrap() error {
	return e.Cause
}
