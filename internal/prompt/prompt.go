// Package prompt renders the natural-language instruction templates shipped
// with the binary. Templates are embedded and parsed once at startup; a
// missing or broken template is a deployment defect and fails loudly instead
// of degrading.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// SystemChat is the reply-synthesis system instruction.
const SystemChat = "system_chat.tmpl"

// SystemChatData parameterizes the reply-synthesis instruction. Searched
// tells the model whether a catalog lookup actually happened this turn, so
// that "we found nothing" and "we never looked" produce different replies.
type SystemChatData struct {
	Searched bool
	Context  string
}

// Renderer renders named templates with their parameters.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses all embedded templates. An unparsable template set is a
// fatal configuration error.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse prompt templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render executes the named template. A name that does not resolve to a
// template is a configuration error and is propagated, never swallowed.
func (r *Renderer) Render(name string, data any) (string, error) {
	tmpl := r.templates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("prompt template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt template %q: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
