// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/z5labs/prerender"
	"github.com/z5labs/prerender/app"
	"github.com/z5labs/prerender/config"
	"github.com/z5labs/prerender/internal/logging"
	"github.com/z5labs/prerender/internal/slogfield"
	"github.com/z5labs/prerender/internal/tracing"
	"github.com/z5labs/prerender/render"
	"github.com/z5labs/prerender/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const serviceName = "prerender"

type settings struct {
	ConfigFile   string
	TemplateDir  string
	Address      string
	Port         uint
	Debug        bool
	DryRun       bool
	LogFormat    logging.Format
	OtelExporter tracing.Exporter
	OtelEndpoint string
}

// SettingsError occurs when a setting from a flag or the environment
// can not be parsed.
type SettingsError struct {
	Key   string
	Cause error
}

// Error implements the error interface.
func (e SettingsError) Error() string {
	return fmt.Sprintf("invalid setting %s: %s", e.Key, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e SettingsError) Unwrap() error {
	return e.Cause
}

func loadSettings(v *viper.Viper) (settings, error) {
	s := settings{
		ConfigFile:   v.GetString("config_file"),
		TemplateDir:  v.GetString("template_dir"),
		Address:      v.GetString("http_address"),
		OtelEndpoint: v.GetString("otel_endpoint"),
	}

	// Read raw strings so a value like APP_HTTP_PORT=abc fails instead
	// of quietly becoming the zero value.
	port, err := strconv.ParseUint(v.GetString("http_port"), 10, 16)
	if err != nil {
		return s, SettingsError{Key: "http_port", Cause: err}
	}
	s.Port = uint(port)

	s.Debug, err = strconv.ParseBool(v.GetString("debug"))
	if err != nil {
		return s, SettingsError{Key: "debug", Cause: err}
	}
	s.DryRun, err = strconv.ParseBool(v.GetString("test"))
	if err != nil {
		return s, SettingsError{Key: "test", Cause: err}
	}

	err = s.LogFormat.UnmarshalText([]byte(v.GetString("log_format")))
	if err != nil {
		return s, SettingsError{Key: "log_format", Cause: err}
	}
	err = s.OtelExporter.UnmarshalText([]byte(v.GetString("otel_exporter")))
	if err != nil {
		return s, SettingsError{Key: "otel_exporter", Cause: err}
	}
	return s, nil
}

type siteRunner func(context.Context, io.Writer, settings) error

func newRootCmd(stdout io.Writer, runSite siteRunner) *cobra.Command {
	v := viper.New()
	v.SetDefault("config_file", "config.json")
	v.SetDefault("template_dir", ".")
	v.SetDefault("http_address", "0.0.0.0")
	v.SetDefault("http_port", 8090)
	v.SetDefault("debug", false)
	v.SetDefault("test", false)
	v.SetDefault("log_format", string(logging.Text))
	v.SetDefault("otel_exporter", string(tracing.None))
	v.SetDefault("otel_endpoint", "")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "prerender",
		Short: "Render a site's pages once and serve them from memory",
		Long: `prerender reads a site config, renders every route's template with
its variables, the default variables and, optionally, the process
environment, then serves the rendered pages by path prefix.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			return runSite(cmd.Context(), stdout, s)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "config.json", "site config file, .yaml/.yml for YAML and JSON otherwise")
	flags.String("templates", ".", "directory template files are resolved against")
	flags.String("address", "0.0.0.0", "address to serve pages on")
	flags.Uint("port", 8090, "port to serve pages on")
	flags.Bool("debug", false, "log every request's page match")
	flags.Bool("dry-run", false, "build every page and exit without serving")
	flags.String("log-format", string(logging.Text), "log format, text or json")
	flags.String("otel-exporter", string(tracing.None), "trace exporter, none, stdout or otlp")
	flags.String("otel-endpoint", "", "OTLP gRPC collector endpoint")

	bindings := map[string]string{
		"config_file":   "config",
		"template_dir":  "templates",
		"http_address":  "address",
		"http_port":     "port",
		"debug":         "debug",
		"test":          "dry-run",
		"log_format":    "log-format",
		"otel_exporter": "otel-exporter",
		"otel_endpoint": "otel-endpoint",
	}
	for key, flag := range bindings {
		// Lookup never returns nil here since every flag was defined above.
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	return cmd
}

type runFunc func(context.Context) error

func (f runFunc) Run(ctx context.Context) error {
	return f(ctx)
}

func run(ctx context.Context, stdout io.Writer, s settings) error {
	handler := logging.NewHandler(stdout, logging.Options{
		Format: s.LogFormat,
		Debug:  s.Debug,
	})
	log := slog.New(handler).With(slogfield.Section(slogfield.SectionBuild))

	shutdown, err := tracing.Init(ctx, tracing.Config{
		ServiceName: serviceName,
		Exporter:    s.OtelExporter,
		Endpoint:    s.OtelEndpoint,
		Out:         stdout,
	})
	if err != nil {
		return err
	}

	configPath, err := filepath.Abs(s.ConfigFile)
	if err != nil {
		return err
	}
	log.InfoContext(
		ctx,
		"load settings",
		slogfield.String("config_file", s.ConfigFile),
		slogfield.Bool("dry_run", s.DryRun),
	)
	src := config.FromFile(os.DirFS(filepath.Dir(configPath)), filepath.Base(configPath))

	builder := prerender.NewBuilder(
		prerender.Templates(os.DirFS(s.TemplateDir)),
		prerender.LogHandler(handler),
		prerender.DryRun(s.DryRun),
		prerender.ListenOn(s.Address, s.Port),
	)

	var a prerender.App = runFunc(func(ctx context.Context) error {
		return prerender.Run(ctx, builder, src)
	})
	a = app.WithSignalNotifications(a, os.Interrupt, syscall.SIGTERM)
	a = app.WithLifecycleHooks(a, app.Lifecycle{
		PostRun: app.LifecycleHookFunc(shutdown),
	})
	a = app.Recover(a)

	err = a.Run(ctx)
	if err != nil {
		log.ErrorContext(ctx, "prerender failed", slogfield.ErrorKind(errorKind(err)), slogfield.Error(err))
	}
	return err
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, run)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "ERROR [%s] %s\n", errorKind(err), err)
	return 1
}

func errorKind(err error) string {
	var (
		interruptErr  app.InterruptError
		settingsErr   SettingsError
		openErr       config.FileOpenError
		malformedErr  config.MalformedInputError
		validationErr config.ValidationError
		undefinedErr  render.UndefinedVariableError
		notFoundErr   render.TemplateNotFoundError
		parseErr      render.TemplateParseError
		listenErr     server.ListenError
		loadErr       prerender.ConfigLoadError
		buildErr      prerender.AppBuildError
	)
	switch {
	case errors.As(err, &interruptErr):
		return "interrupt"
	case errors.As(err, &settingsErr):
		return "settings"
	case errors.As(err, &openErr):
		return "config_not_found"
	case errors.As(err, &malformedErr):
		return "malformed_input"
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &undefinedErr):
		return "undefined_variable"
	case errors.As(err, &notFoundErr):
		return "template_not_found"
	case errors.As(err, &parseErr):
		return "template_parse"
	case errors.As(err, &listenErr):
		return "listen"
	case errors.As(err, &loadErr):
		return "config"
	case errors.As(err, &buildErr):
		return "build"
	default:
		return "fatal"
	}
}
