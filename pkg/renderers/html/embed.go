package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// DefaultTemplate is the template rendered when the theme names no
// "addons.form" partial.
const DefaultTemplate = "templates/addons"

// PartialForm is the theme partial key overriding DefaultTemplate.
const PartialForm = "addons.form"

// AssetStylesheet is the theme asset key resolved for the stylesheet link.
const AssetStylesheet = "addons.stylesheet"

// TemplatesFS exposes the embedded template bundle so callers can copy or
// extend it.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
