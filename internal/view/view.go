// Package view wires html/template into Echo's Renderer interface.
// Templates are embedded into the binary so the server has no runtime
// dependency on a working directory layout.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var files embed.FS

// Renderer implements echo.Renderer over the embedded template set.
// Each page template is addressed by its file name (e.g. "home.html");
// shared header/footer blocks live in layout.html.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates. Parsing failures are programmer
// errors and panic during startup rather than at request time.
func New() *Renderer {
	funcs := template.FuncMap{
		// avg renders a nullable average rating as e.g. "4.2" or a dash.
		"avg": func(valid bool, v float64) string {
			if !valid {
				return "–"
			}
			return fmt.Sprintf("%.1f", v)
		},
	}
	return &Renderer{
		tmpl: template.Must(template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")),
	}
}

// Render writes the named template to w.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}
