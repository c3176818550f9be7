// Package template defines the template renderer interface used by the HTML
// surface and, in gotemplate, its pongo2 adapter.
package template
