package dependency

import (
	"fmt"
	"strings"

	"loom/internal/document"
	"loom/internal/reference"
	"loom/internal/walker"
)

// Record states that the component (Type, Key) references the queried
// component through Field. Records are computed on demand and never stored.
type Record struct {
	Type  document.Category
	Key   string
	Field string
}

// Find returns every component that references (target, key), according to
// the cross-reference table. For each candidate field it checks the scalar
// reference forms first (by key, then by the component's name field) and
// falls back to expanded-object structural matching. Absent sections and
// unknown categories yield no records, never an error.
func Find(doc document.Document, target document.Category, key string) []Record {
	if key == "" {
		return nil
	}
	targetValue, targetExists := doc.Lookup(target, key)
	name := ""
	if targetExists {
		name = document.ComponentName(targetValue)
	}

	var records []Record
	seen := map[Record]bool{}
	add := func(r Record) {
		if !seen[r] {
			seen[r] = true
			records = append(records, r)
		}
	}

	for _, r := range rules[target] {
		components := doc.Components(r.dependent)
		for _, depKey := range document.SortedKeys(components) {
			if r.dependent == target && depKey == key {
				continue
			}
			sub, ok := valueAt(components[depKey], r.path)
			if !ok {
				continue
			}
			base := strings.Join(r.path, ".")

			for _, p := range walker.FindPaths(sub, key) {
				add(Record{Type: r.dependent, Key: depKey, Field: joinField(base, p)})
			}

			// Name matching applies only to scalars sitting directly at
			// the reference site. Searching for the name deep inside the
			// field would make every expanded object match its own "name"
			// field.
			if name != "" && name != key {
				if s, ok := sub.(string); ok && s == name {
					add(Record{Type: r.dependent, Key: depKey, Field: base})
				}
				if seq, ok := sub.([]interface{}); ok {
					for i, e := range seq {
						if s, ok := e.(string); ok && s == name {
							add(Record{Type: r.dependent, Key: depKey, Field: fmt.Sprintf("%s[%d]", base, i)})
						}
					}
				}
			}

			if !targetExists {
				continue
			}
			if seq, ok := sub.([]interface{}); ok {
				for i, e := range seq {
					if reference.MatchesExpanded(e, target, key, doc) {
						add(Record{Type: r.dependent, Key: depKey, Field: fmt.Sprintf("%s[%d]", base, i)})
					}
				}
			} else if reference.MatchesExpanded(sub, target, key, doc) {
				add(Record{Type: r.dependent, Key: depKey, Field: base})
			}
		}
	}
	return records
}

// valueAt extracts the value at a field path inside a component value.
func valueAt(value interface{}, path []string) (interface{}, bool) {
	cur := value
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func joinField(base, sub string) string {
	switch {
	case sub == "":
		return base
	case strings.HasPrefix(sub, "["):
		return base + sub
	default:
		return base + "." + sub
	}
}

// FindSchemaDependencies returns the components referencing the schema key.
func FindSchemaDependencies(doc document.Document, key string) []Record {
	return Find(doc, document.CategorySchema, key)
}

// FindTableDependencies returns the components referencing the table key.
func FindTableDependencies(doc document.Document, key string) []Record {
	return Find(doc, document.CategoryTable, key)
}

// FindDatabaseDependencies returns the components referencing the database key.
func FindDatabaseDependencies(doc document.Document, key string) []Record {
	return Find(doc, document.CategoryDatabase, key)
}

// FindLLMDependencies returns the components referencing the LLM resource key.
func FindLLMDependencies(doc document.Document, key string) []Record {
	return Find(doc, document.CategoryLLM, key)
}

// FindVectorStoreDependencies returns the components referencing the vector store key.
func FindVectorStoreDependencies(doc document.Document, key string) []Record {
	return Find(doc, document.CategoryVectorStore, key)
}

// FindToolDependencies returns the components referencing the tool key.
func FindToolDependencies(doc document.Document, key string) []Record {
	return Find(doc, document.CategoryTool, key)
}

// FindAgentDependencies returns the components referencing the agent key.
func FindAgentDependencies(doc document.Document, key string) []Record {
	return Find(doc, document.CategoryAgent, key)
}

// FindGuardrailDependencies returns the components referencing the guardrail key.
func FindGuardrailDependencies(doc document.Document, key string) []Record {
	return Find(doc, document.CategoryGuardrail, key)
}

// FindMiddlewareDependencies returns the components referencing the middleware key.
func FindMiddlewareDependencies(doc document.Document, key string) []Record {
	return Find(doc, document.CategoryMiddleware, key)
}

// FindPromptDependencies returns the components referencing the prompt key.
func FindPromptDependencies(doc document.Document, key string) []Record {
	return Find(doc, document.CategoryPrompt, key)
}

// FindVariableDependencies returns the components referencing the variable key.
func FindVariableDependencies(doc document.Document, key string) []Record {
	return Find(doc, document.CategoryVariable, key)
}

// FindMemoryDependencies returns the components referencing the memory key.
func FindMemoryDependencies(doc document.Document, key string) []Record {
	return Find(doc, document.CategoryMemory, key)
}
