// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package render

import "fmt"

// TemplateNotFoundError occurs when the named template does not exist.
type TemplateNotFoundError struct {
	Name  string
	Cause error
}

// Error implements the error interface.
func (e TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Name)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e TemplateNotFoundError) Unwrap() error {
	return e.Cause
}

// TemplateParseError occurs when a template fails to be parsed.
type TemplateParseError struct {
	Name  string
	Cause error
}

// Error implements the error interface.
func (e TemplateParseError) Error() string {
	return fmt.Sprintf("failed to parse template %s: %s", e.Name, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e TemplateParseError) Unwrap() error {
	return e.Cause
}

// UndefinedVariableError occurs when a template references a variable
// which is not present in its data.
type UndefinedVariableError struct {
	Template string
	Name     string
	Cause    error
}

// Error implements the error interface.
func (e UndefinedVariableError) Error() string {
	return fmt.Sprintf("template %s references undefined variable: %s", e.Template, e.Name)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e UndefinedVariableError) Unwrap() error {
	return e.Cause
}

// TemplateExecError occurs when a template fails to execute for any
// reason other than an undefined variable, e.g. a template function
// returning an error or panicking.
type TemplateExecError struct {
	Name  string
	Cause error
}

// Error implements the error interface.
func (e TemplateExecError) Error() string {
	return fmt.Sprintf("failed to exec template %s: %s", e.Name, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e TemplateExecError) Unwrap() error {
	return e.Cause
}
