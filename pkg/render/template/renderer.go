package template

import (
	"io"
)

// TemplateRenderer is the seam HTML renderers depend on. The gotemplate
// subpackage provides the pongo2-backed implementation.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
