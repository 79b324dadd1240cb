package document

import (
	"sort"
)

// Document is the root of an agent deployment descriptor: a mapping from
// section name to a mapping of component key to component value. Component
// values are arbitrary trees of scalars, mappings and sequences, as produced
// by a YAML or JSON unmarshal into interface{} values.
//
// The Document is owned by the store; every function in this package treats
// it as read-only and returns fresh values instead of mutating in place,
// with the sole exception of Delete, which callers use on a clone.
type Document map[string]interface{}

// Category identifies a kind of component independent of where its section
// lives in the document tree (some categories are nested under "resources").
type Category string

const (
	CategorySchema      Category = "schema"
	CategoryTable       Category = "table"
	CategoryDatabase    Category = "database"
	CategoryLLM         Category = "llm"
	CategoryVectorStore Category = "vector_store"
	CategoryTool        Category = "tool"
	CategoryAgent       Category = "agent"
	CategoryGuardrail   Category = "guardrail"
	CategoryMiddleware  Category = "middleware"
	CategoryPrompt      Category = "prompt"
	CategoryVariable    Category = "variable"
	CategoryMemory      Category = "memory"
	CategoryApp         Category = "app"
)

// sectionPaths is the closed mapping from category to the path of its
// section inside the document. Categories missing from this map are simply
// unknown to the engine; lookups against them yield nothing.
var sectionPaths = map[Category][]string{
	CategorySchema:      {"schemas"},
	CategoryTable:       {"resources", "tables"},
	CategoryDatabase:    {"resources", "databases"},
	CategoryLLM:         {"resources", "llms"},
	CategoryVectorStore: {"resources", "vector_stores"},
	CategoryTool:        {"tools"},
	CategoryAgent:       {"agents"},
	CategoryGuardrail:   {"guardrails"},
	CategoryMiddleware:  {"middleware"},
	CategoryPrompt:      {"prompts"},
	CategoryVariable:    {"variables"},
	CategoryMemory:      {"memory"},
	CategoryApp:         {"app"},
}

// SectionPath returns the section path for a category, or nil if the
// category is not modeled.
func SectionPath(category Category) []string {
	return sectionPaths[category]
}

// Categories returns all modeled categories in a stable order.
func Categories() []Category {
	out := make([]Category, 0, len(sectionPaths))
	for c := range sectionPaths {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Section returns the component mapping at the given path, or nil if any
// step of the path is absent or not a mapping.
func (d Document) Section(path ...string) map[string]interface{} {
	var cur interface{} = map[string]interface{}(d)
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = m[p]
	}
	m, _ := cur.(map[string]interface{})
	return m
}

// Components returns the component mapping for a category, or nil when the
// category or its section is absent.
func (d Document) Components(category Category) map[string]interface{} {
	path := sectionPaths[category]
	if path == nil {
		return nil
	}
	return d.Section(path...)
}

// Lookup returns the configured value of the component identified by
// (category, key), if present.
func (d Document) Lookup(category Category, key string) (interface{}, bool) {
	section := d.Components(category)
	if section == nil {
		return nil, false
	}
	v, ok := section[key]
	return v, ok
}

// Delete removes the component (category, key) from the document. It
// reports whether anything was removed. Unknown categories are a no-op.
func (d Document) Delete(category Category, key string) bool {
	section := d.Components(category)
	if section == nil {
		return false
	}
	if _, ok := section[key]; !ok {
		return false
	}
	delete(section, key)
	return true
}

// ComponentName returns the human-readable name of a component value: its
// "name" field when the value is a mapping carrying one, otherwise "".
func ComponentName(value interface{}) string {
	m, ok := value.(map[string]interface{})
	if !ok {
		return ""
	}
	name, _ := m["name"].(string)
	return name
}

// SortedKeys returns the keys of a component mapping in lexical order, for
// deterministic iteration over unordered maps.
func SortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
