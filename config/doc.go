// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config loads and validates the site configuration.
//
// A site configuration has two required sections:
//
//	{
//	  "default": {
//	    "variables": {"title": "Example"},
//	    "environment": true,
//	    "environment_filter": "SITE_"
//	  },
//	  "server": [
//	    {
//	      "request": {"path": "/hello", "response": 200},
//	      "template_file": "hello.tmpl",
//	      "variables": {"name": "World"}
//	    }
//	  ]
//	}
//
// Every field is required. Nothing is filled in with defaults, so
// components downstream of [Load] never need to re-check presence.
//
// Documents are read through a [Source]. [FromJson] and [FromYaml] wrap an
// [io.Reader] and [FromFile] picks one of them from the file extension.
// A document that cannot be parsed at all fails with a [MalformedInputError],
// while a parsed document that does not fit the schema fails with a
// [ValidationError].
package config
