// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package prerender turns a declarative site configuration into a fixed
// set of pre-rendered HTTP responses and serves them from memory.
//
// Running a site has two phases. The build phase loads the
// configuration, resolves the environment variables templates may see and
// renders every configured route, in order, into a [page.Page]. The serve
// phase answers each request with the first page whose path is a prefix
// of the requested path.
//
// The build is all or nothing. A single invalid field or undefined
// template variable stops the process before a socket is ever bound.
//
//	err := prerender.Run(
//		ctx,
//		prerender.NewBuilder(
//			prerender.Templates(os.DirFS(".")),
//			prerender.ListenOn("0.0.0.0", 8090),
//		),
//		config.FromFile(os.DirFS("."), "config.json"),
//	)
package prerender
