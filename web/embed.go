package web

import "embed"

// Templates embeds the email templates.
//
//go:embed templates/email/*.html
var Templates embed.FS
