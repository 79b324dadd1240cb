package template

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	texttemplate "text/template"

	"github.com/Masterminds/sprig/v3"

	"loom/internal/document"
	"loom/internal/reference"
)

// Engine renders prompt templates against the descriptor's variables
// section.
type Engine struct {
	funcs texttemplate.FuncMap
}

// New creates a template engine with the sprig function library available
// to templates.
func New() *Engine {
	return &Engine{funcs: sprig.FuncMap()}
}

// Context builds the rendering context from the variables section: each
// variable's key maps to its value field (or the whole component when it
// is a bare scalar). A prompt may restrict itself to the variables it
// lists; an empty list means all of them.
func (e *Engine) Context(doc document.Document, only []string) map[string]interface{} {
	ctx := make(map[string]interface{})
	variables := doc.Components(document.CategoryVariable)
	for key, v := range variables {
		if m, ok := v.(map[string]interface{}); ok {
			if value, ok := m["value"]; ok {
				ctx[key] = value
				continue
			}
		}
		ctx[key] = v
	}
	if len(only) == 0 {
		return ctx
	}

	filtered := make(map[string]interface{}, len(only))
	for _, ref := range only {
		key, ok := reference.Referent(ref, document.CategoryVariable, doc)
		if !ok {
			continue
		}
		if value, ok := ctx[key]; ok {
			filtered[key] = value
		}
	}
	return filtered
}

// RenderPrompt renders the template field of the given prompt component.
// Variables the template uses but the context lacks are an error, reported
// together, rather than rendering "<no value>" placeholders.
func (e *Engine) RenderPrompt(doc document.Document, promptKey string) (string, error) {
	comp, ok := doc.Lookup(document.CategoryPrompt, promptKey)
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", promptKey)
	}
	m, ok := comp.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("prompt %q has no template", promptKey)
	}
	text, ok := m["template"].(string)
	if !ok {
		return "", fmt.Errorf("prompt %q has no template", promptKey)
	}

	var only []string
	if seq, ok := m["variables"].([]interface{}); ok {
		for _, v := range seq {
			if s, ok := v.(string); ok {
				only = append(only, s)
			}
		}
	}
	ctx := e.Context(doc, only)

	tmpl, err := texttemplate.New(promptKey).Funcs(e.funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template of prompt %q: %w", promptKey, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("rendering prompt %q (have variables: %s): %w",
			promptKey, availableVariables(ctx), err)
	}
	return buf.String(), nil
}

func availableVariables(ctx map[string]interface{}) string {
	if len(ctx) == 0 {
		return "none"
	}
	names := make([]string, 0, len(ctx))
	for k := range ctx {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
