// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ValidationError occurs when a parsed document does not match the
// site configuration schema.
type ValidationError struct {
	// Field is the dotted path of the offending field, if known. When
	// several fields are wrong their paths are comma separated.
	Field string
	Cause error
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid site config: %s", e.Cause)
	}
	return fmt.Sprintf("invalid site config: %s: %s", e.Field, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e ValidationError) Unwrap() error {
	return e.Cause
}

var (
	errNotObject     = errors.New("must be an object")
	errNotList       = errors.New("must be a list")
	errNull          = errors.New("must not be null")
	errStatusCode    = errors.New("must be a HTTP status code between 100 and 999")
	errNotWholeValue = errors.New("must be a whole number")
)

// Load reads a document from src and validates it into a Site.
//
// Load fails with a [MalformedInputError] if the document cannot be parsed
// and with a [ValidationError] if any required field is missing or has
// the wrong type.
func Load(src Source) (Site, error) {
	doc, err := src.Decode()
	if err != nil {
		return Site{}, err
	}

	root, ok := doc.(map[string]any)
	if !ok {
		return Site{}, ValidationError{Cause: errNotObject}
	}

	err = rejectNulls(root)
	if err != nil {
		return Site{}, err
	}

	var site Site
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "config",
		ErrorUnset: true,
		DecodeHook: wholeNumberHookFunc(),
		Result:     &site,
	})
	if err != nil {
		return Site{}, err
	}

	err = dec.Decode(root)
	if err != nil {
		return Site{}, ValidationError{
			Field: strings.Join(decodeErrorFields(err), ", "),
			Cause: err,
		}
	}

	err = site.validate()
	if err != nil {
		return Site{}, err
	}
	return site, nil
}

// rejectNulls fails on the first explicit null among the known fields of
// the document. Unknown keys and the contents of variables mappings are
// free-form and not inspected.
func rejectNulls(root map[string]any) error {
	err := requireNonNull(root, "", "default", "server")
	if err != nil {
		return err
	}

	if def, ok := root["default"].(map[string]any); ok {
		err = requireNonNull(def, "default", "variables", "environment", "environment_filter")
		if err != nil {
			return err
		}
	}

	routes, ok := root["server"].([]any)
	if !ok {
		return nil
	}
	for i, v := range routes {
		field := "server[" + strconv.Itoa(i) + "]"
		if v == nil {
			return ValidationError{Field: field, Cause: errNull}
		}
		route, ok := v.(map[string]any)
		if !ok {
			continue
		}

		err = requireNonNull(route, field, "request", "template_file", "variables")
		if err != nil {
			return err
		}
		if req, ok := route["request"].(map[string]any); ok {
			err = requireNonNull(req, field+".request", "path", "response")
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func requireNonNull(obj map[string]any, path string, keys ...string) error {
	for _, key := range keys {
		v, ok := obj[key]
		if ok && v == nil {
			return ValidationError{Field: joinPath(path, key), Cause: errNull}
		}
	}
	return nil
}

var (
	unsetFieldsRegexp = regexp.MustCompile(`^'([^']*)' has unset fields: (.+)$`)
	fieldErrorRegexp  = regexp.MustCompile(`^(?:error decoding )?'([^']*)'`)
)

// decodeErrorFields collects the field paths named by a mapstructure
// decode error. mapstructure reports every failure as a message prefixed
// with the quoted field path, joined with errors.Join.
func decodeErrorFields(err error) []string {
	seen := make(map[string]bool)
	var walk func(error)
	walk = func(err error) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}

		msg := err.Error()
		if m := unsetFieldsRegexp.FindStringSubmatch(msg); m != nil {
			for _, key := range strings.Split(m[2], ", ") {
				seen[joinPath(m[1], key)] = true
			}
			return
		}
		if m := fieldErrorRegexp.FindStringSubmatch(msg); m != nil && m[1] != "" {
			seen[m[1]] = true
			return
		}
		if wrapped := errors.Unwrap(err); wrapped != nil {
			walk(wrapped)
		}
	}
	walk(err)

	fields := make([]string, 0, len(seen))
	for field := range seen {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// wholeNumberHookFunc stops mapstructure from silently truncating
// fractional JSON numbers into integer fields.
func wholeNumberHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t.Kind() != reflect.Int {
			return data, nil
		}
		switch f.Kind() {
		case reflect.Float32, reflect.Float64:
			n := reflect.ValueOf(data).Float()
			if n != math.Trunc(n) {
				return nil, errNotWholeValue
			}
			return int(n), nil
		default:
			return data, nil
		}
	}
}

func (s Site) validate() error {
	if s.Default.Variables == nil {
		return ValidationError{Field: "default.variables", Cause: errNotObject}
	}
	if s.Server == nil {
		return ValidationError{Field: "server", Cause: errNotList}
	}
	for i, route := range s.Server {
		field := "server[" + strconv.Itoa(i) + "]"
		if route.Variables == nil {
			return ValidationError{Field: field + ".variables", Cause: errNotObject}
		}
		code := route.Request.Response
		if code < 100 || code > 999 {
			return ValidationError{Field: field + ".request.response", Cause: errStatusCode}
		}
	}
	return nil
}

// String returns a short human readable summary of the route.
func (r Route) String() string {
	return fmt.Sprintf("%q -> %s (%d)", r.Request.Path, r.TemplateFile, r.Request.Response)
}
