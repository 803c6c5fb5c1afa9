// Copyright (c) 2026 Carbongold. All rights reserved.

// Package render is the template-rendering collaborator for the public portal.
//
// Handlers pass a template name and a value mapping; the implementation owns
// template parsing and escaping. Keeping this behind an interface lets tests
// assert on the values a handler renders without parsing HTML.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Values is the data mapping handed to a template.
type Values map[string]any

// Renderer renders a named template with a value mapping.
type Renderer interface {
	Render(w io.Writer, name string, values Values) error
}

// HTMLRenderer renders templates embedded in the binary.
type HTMLRenderer struct {
	templates *template.Template
}

// NewHTMLRenderer parses all embedded portal templates.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse portal templates: %w", err)
	}
	return &HTMLRenderer{templates: tmpl}, nil
}

func (r *HTMLRenderer) Render(w io.Writer, name string, values Values) error {
	if err := r.templates.ExecuteTemplate(w, name, values); err != nil {
		return fmt.Errorf("render template %q: %w", name, err)
	}
	return nil
}
