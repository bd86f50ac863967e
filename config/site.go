// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

// Site is the validated root of a site configuration.
type Site struct {
	Default Defaults `config:"default"`
	Server  []Route  `config:"server"`
}

// Defaults holds the settings shared by every route.
type Defaults struct {
	// Variables are applied on top of each route's own variables.
	Variables map[string]any `config:"variables"`

	// Environment enables exposing process environment variables to templates.
	Environment bool `config:"environment"`

	// EnvironmentFilter restricts the exposed environment variables to
	// names with this prefix. An empty filter exposes all of them.
	EnvironmentFilter string `config:"environment_filter"`
}

// Route describes a single pre-rendered response.
type Route struct {
	Request      Request        `config:"request"`
	TemplateFile string         `config:"template_file"`
	Variables    map[string]any `config:"variables"`
}

// Request identifies which requests a Route answers and how.
type Request struct {
	// Path is matched as a literal prefix of the requested path.
	Path string `config:"path"`

	// Response is the HTTP status code sent with the rendered page.
	Response int `config:"response"`
}
