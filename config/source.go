// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/z5labs/prerender/internal/try"

	"gopkg.in/yaml.v3"
)

// Source parses a raw configuration document into its generic form,
// i.e. maps, slices and scalar values.
type Source interface {
	Decode() (any, error)
}

// MalformedInputError occurs if a document is not parseable structured data.
type MalformedInputError struct {
	Format string
	Cause  error
}

// Error implements the error interface.
func (e MalformedInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Format, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e MalformedInputError) Unwrap() error {
	return e.Cause
}

// Json represents a Source where its underlying format is JSON.
type Json struct {
	r io.Reader
}

// FromJson returns a Source which parses JSON from the given io.Reader.
// If r is also an io.Closer, it will be closed once read.
func FromJson(r io.Reader) Json {
	return Json{r: r}
}

// Decode implements the Source interface.
func (src Json) Decode() (v any, err error) {
	defer try.Close(&err, src.r)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(b, &v)
	if err != nil {
		return nil, MalformedInputError{Format: "json", Cause: err}
	}
	return v, nil
}

// Yaml represents a Source where its underlying format is YAML.
type Yaml struct {
	r io.Reader
}

// FromYaml returns a Source which parses YAML from the given io.Reader.
// If r is also an io.Closer, it will be closed once read.
func FromYaml(r io.Reader) Yaml {
	return Yaml{r: r}
}

// Decode implements the Source interface.
func (src Yaml) Decode() (v any, err error) {
	defer try.Close(&err, src.r)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(b, &v)
	if err != nil {
		return nil, MalformedInputError{Format: "yaml", Cause: err}
	}
	return v, nil
}

// FileOpenError occurs when the configuration file cannot be opened.
type FileOpenError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e FileOpenError) Error() string {
	return fmt.Sprintf("failed to open config file %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e FileOpenError) Unwrap() error {
	return e.Cause
}

// File is a Source backed by a file in a fs.FS. The file is only
// opened once Decode is called.
type File struct {
	fs   fs.FS
	path string
}

// FromFile returns a Source for the file at path. Files ending in
// .yaml or .yml are parsed as YAML, everything else as JSON.
func FromFile(fsys fs.FS, path string) File {
	return File{fs: fsys, path: path}
}

// Decode implements the Source interface.
func (src File) Decode() (any, error) {
	f, err := src.fs.Open(src.path)
	if err != nil {
		return nil, FileOpenError{Path: src.path, Cause: err}
	}

	switch strings.ToLower(path.Ext(src.path)) {
	case ".yaml", ".yml":
		return FromYaml(f).Decode()
	default:
		return FromJson(f).Decode()
	}
}
