// Package web embeds the dashboard's templates and static assets so the
// binary ships self-contained.
package web

import "embed"

// TemplatesFS holds the server-rendered HTML templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds stylesheets and client-side scripts.
//
//go:embed static/*
var StaticFS embed.FS
