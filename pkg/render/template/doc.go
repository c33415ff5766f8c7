// Package template defines the template engine seam renderers execute their
// markup through. The gotemplate subpackage provides the pongo2 engine.
package template
