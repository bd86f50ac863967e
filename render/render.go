// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package render executes page templates in strict mode.
//
// Templates use [text/template] syntax and receive the merged page
// variables as their data, e.g. {{ .name }}. Referencing a variable which
// is not present fails the render with an [UndefinedVariableError] instead
// of producing an empty string.
//
// Two functions are always available to templates:
//
//   - escape: HTML-escapes the string form of any value, {{ escape .title }}
//   - env: looks up an exposed environment variable, {{ env "HOME" }}.
//     An unknown name fails the render like any other undefined variable.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"regexp"
	"strings"
	"text/template"
)

// Option configures a Renderer.
type Option func(*Renderer)

// TemplateFunc registers the given function, f, for use in templates
// via the given name.
func TemplateFunc(name string, f any) Option {
	return func(r *Renderer) {
		r.funcs[name] = f
	}
}

// Delims sets the action delimiters. An empty delimiter stands for the
// corresponding default: {{ or }}.
func Delims(left, right string) Option {
	return func(r *Renderer) {
		r.leftDelim = left
		r.rightDelim = right
	}
}

// Env exposes the given environment variables to templates through
// the env function. The map is copied.
func Env(vars map[string]string) Option {
	return func(r *Renderer) {
		r.env = maps.Clone(vars)
	}
}

// Renderer loads templates from a fs.FS and renders them.
// A Renderer is safe for concurrent use once constructed.
type Renderer struct {
	fs fs.FS

	leftDelim  string
	rightDelim string
	funcs      template.FuncMap
	env        map[string]string
}

// New returns a Renderer which resolves template names relative to
// the root of fsys.
func New(fsys fs.FS, opts ...Option) *Renderer {
	r := &Renderer{
		fs:    fsys,
		funcs: make(template.FuncMap),
		env:   map[string]string{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.env == nil {
		r.env = map[string]string{}
	}

	env := r.env
	r.funcs["escape"] = escape
	r.funcs["env"] = func(name string) (string, error) {
		v, ok := env[name]
		if !ok {
			return "", missingEnvError{Name: name}
		}
		return v, nil
	}
	return r
}

type missingEnvError struct {
	Name string
}

func (e missingEnvError) Error() string {
	return fmt.Sprintf("environment variable is not exposed: %s", e.Name)
}

// htmlEscaper uses the named entity for double quotes and the hex form
// for single quotes.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

func escape(v any) string {
	return htmlEscaper.Replace(fmt.Sprint(v))
}

// Render executes the named template with vars as its data and returns
// the UTF-8 encoded output.
func (r *Renderer) Render(name string, vars map[string]any) ([]byte, error) {
	tmpl, err := r.load(name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, vars)
	if err != nil {
		return nil, classifyExecError(name, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) load(name string) (*template.Template, error) {
	p := path.Clean(name)
	if !fs.ValidPath(p) {
		return nil, TemplateNotFoundError{Name: name, Cause: fs.ErrInvalid}
	}

	b, err := fs.ReadFile(r.fs, p)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		return nil, TemplateNotFoundError{Name: name, Cause: err}
	}
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).
		Delims(r.leftDelim, r.rightDelim).
		Funcs(r.funcs).
		Option("missingkey=error").
		Parse(string(b))
	if err != nil {
		return nil, TemplateParseError{Name: name, Cause: err}
	}
	return tmpl, nil
}

var missingKeyRegexp = regexp.MustCompile(`map has no entry for key "((?:[^"\\]|\\.)*)"`)

func classifyExecError(name string, err error) error {
	var envErr missingEnvError
	if errors.As(err, &envErr) {
		return UndefinedVariableError{Template: name, Name: envErr.Name, Cause: err}
	}

	var execErr template.ExecError
	if errors.As(err, &execErr) {
		m := missingKeyRegexp.FindStringSubmatch(execErr.Err.Error())
		if m != nil {
			return UndefinedVariableError{Template: name, Name: m[1], Cause: err}
		}
	}
	return TemplateExecError{Name: name, Cause: err}
}

// MergeVariables builds the data passed to a page template. It starts
// from the page variables and then applies the defaults on top, so a key
// defined in both takes its value from defaults. Neither input is modified.
//
// Defaults winning over page values is the established behaviour that
// existing site configurations rely on.
func MergeVariables(page, defaults map[string]any) map[string]any {
	vars := make(map[string]any, len(page)+len(defaults))
	maps.Copy(vars, page)
	maps.Copy(vars, defaults)
	return vars
}
