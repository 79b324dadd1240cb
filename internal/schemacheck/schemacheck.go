package schemacheck

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"loom/internal/document"
)

// Problem reports one component field whose JSON Schema payload does not
// compile.
type Problem struct {
	Category document.Category
	Key      string
	Field    string
	Err      error
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %q: field %s: %v", p.Category, p.Key, p.Field, p.Err)
}

// schemaFields lists the component fields whose values are embedded JSON
// Schema documents rather than references.
var schemaFields = []struct {
	category document.Category
	field    string
}{
	{document.CategoryTool, "parameters"},
	{document.CategoryGuardrail, "parameters"},
}

// CheckDocument compiles every embedded JSON Schema in the descriptor and
// returns a problem per field that fails to compile. A missing field is
// fine; a present one must be a valid schema.
func CheckDocument(doc document.Document) []Problem {
	var problems []Problem
	for _, sf := range schemaFields {
		components := doc.Components(sf.category)
		for _, key := range document.SortedKeys(components) {
			comp, ok := components[key].(map[string]interface{})
			if !ok {
				continue
			}
			raw, ok := comp[sf.field]
			if !ok {
				continue
			}
			if err := compile(raw); err != nil {
				problems = append(problems, Problem{
					Category: sf.category,
					Key:      key,
					Field:    sf.field,
					Err:      err,
				})
			}
		}
	}
	return problems
}

// Validate checks a payload value against the embedded JSON Schema of the
// given component field.
func Validate(doc document.Document, category document.Category, key string, field string, payload interface{}) error {
	comp, ok := doc.Lookup(category, key)
	if !ok {
		return fmt.Errorf("unknown %s %q", category, key)
	}
	m, ok := comp.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%s %q has no fields", category, key)
	}
	raw, ok := m[field]
	if !ok {
		return nil
	}
	schema, err := compileSchema(raw)
	if err != nil {
		return err
	}
	return schema.Validate(payload)
}

func compile(raw interface{}) error {
	_, err := compileSchema(raw)
	return err
}

func compileSchema(raw interface{}) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", raw); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
