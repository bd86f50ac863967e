// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package prerender

import (
	"context"
	"io/fs"
	"log/slog"
	"net"
	"os"

	"github.com/z5labs/prerender/config"
	"github.com/z5labs/prerender/environ"
	"github.com/z5labs/prerender/internal/logging"
	"github.com/z5labs/prerender/internal/slogfield"
	"github.com/z5labs/prerender/page"
	"github.com/z5labs/prerender/render"
	"github.com/z5labs/prerender/server"
)

type builderOptions struct {
	templates  fs.FS
	environ    func() []string
	logHandler slog.Handler
	dryRun     bool
	host       string
	port       uint
	listen     func(string, string) (net.Listener, error)
}

// BuilderOption configures the AppBuilder returned by NewBuilder.
type BuilderOption func(*builderOptions)

// Templates sets the search root for template files.
//
// Default is the current working directory.
func Templates(fsys fs.FS) BuilderOption {
	return func(bo *builderOptions) {
		bo.templates = fsys
	}
}

// Environ sets the function used to capture the process environment.
//
// Default is os.Environ.
func Environ(f func() []string) BuilderOption {
	return func(bo *builderOptions) {
		bo.environ = f
	}
}

// LogHandler sets the slog.Handler for build and server logs.
func LogHandler(h slog.Handler) BuilderOption {
	return func(bo *builderOptions) {
		bo.logHandler = h
	}
}

// DryRun makes the built App exit right away instead of serving pages.
func DryRun(dryRun bool) BuilderOption {
	return func(bo *builderOptions) {
		bo.dryRun = dryRun
	}
}

// ListenOn configures the address and port pages are served on.
func ListenOn(host string, port uint) BuilderOption {
	return func(bo *builderOptions) {
		bo.host = host
		bo.port = port
	}
}

// Listener replaces net.Listen when the server binds its address.
func Listener(f func(network, addr string) (net.Listener, error)) BuilderOption {
	return func(bo *builderOptions) {
		bo.listen = f
	}
}

// NewBuilder returns an AppBuilder which renders every page of a site
// and returns an App serving them over HTTP.
func NewBuilder(opts ...BuilderOption) AppBuilder[config.Site] {
	bo := &builderOptions{
		templates:  os.DirFS("."),
		environ:    os.Environ,
		logHandler: logging.Discard{},
		host:       "0.0.0.0",
		port:       8090,
		listen:     net.Listen,
	}
	for _, opt := range opts {
		opt(bo)
	}

	return AppBuilderFunc[config.Site](func(ctx context.Context, site config.Site) (App, error) {
		log := slog.New(bo.logHandler).With(slogfield.Section(slogfield.SectionBuild))

		if site.Default.Environment {
			log.InfoContext(
				ctx,
				"load environment variables",
				slogfield.String("filter", site.Default.EnvironmentFilter),
			)
		}
		env := environ.Lookup(site.Default, bo.environ)

		log.InfoContext(ctx, "generate pages", slogfield.Int("routes", len(site.Server)))
		for _, route := range site.Server {
			log.DebugContext(ctx, "render route", slogfield.String("route", route.String()))
		}
		pages, err := page.Build(ctx, site, render.New(bo.templates, render.Env(env)))
		if err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "build completed", slogfield.Int("pages", len(pages)))

		d := page.NewDispatcher(pages)
		if bo.dryRun {
			return dryRun{log: log, pages: d.Len()}, nil
		}

		rt := server.NewRuntime(
			server.ListenOn(bo.host, bo.port),
			server.ListenFunc(bo.listen),
			server.LogHandler(bo.logHandler),
			server.Handler(server.NewHandler(d, server.HandlerLogHandler(bo.logHandler))),
		)
		return rt, nil
	})
}

type dryRun struct {
	log   *slog.Logger
	pages int
}

func (d dryRun) Run(ctx context.Context) error {
	d.log.InfoContext(ctx, "dry run finished, not starting server", slogfield.Int("pages", d.pages))
	return nil
}
