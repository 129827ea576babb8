package web

import "embed"

// TemplateFS holds the embedded page templates.
//
//go:embed templates/*
var TemplateFS embed.FS
