package dependency

import (
	"loom/internal/document"
)

// rule declares that components of the dependent category may reference
// components of a target category through the field at path. The path is
// relative to the component value; a path landing on a sequence means every
// element is a potential reference site.
type rule struct {
	dependent document.Category
	path      []string
}

// rules is the closed table of cross-reference fields, keyed by the
// referenced category. It is the single source of truth shared by the
// dependency finder and the exporter's alias emission, and must be extended
// whenever a component category grows a new cross-reference field.
//
// middleware arguments are intentionally absent: they are opaque to the
// table, and dangling references inside them are caught by the round-trip
// validator instead.
var rules = map[document.Category][]rule{
	document.CategorySchema: {
		{document.CategoryTool, []string{"schema"}},
		{document.CategoryPrompt, []string{"schema"}},
		{document.CategoryDatabase, []string{"schema"}},
		{document.CategoryTable, []string{"schema"}},
		{document.CategoryVectorStore, []string{"source_table", "schema"}},
		{document.CategoryVectorStore, []string{"index", "schema"}},
	},
	document.CategoryTable: {
		{document.CategoryVectorStore, []string{"source_table", "table"}},
	},
	document.CategoryDatabase: {
		{document.CategoryTool, []string{"database"}},
		{document.CategoryMemory, []string{"database"}},
		{document.CategoryVectorStore, []string{"database"}},
	},
	document.CategoryLLM: {
		{document.CategoryAgent, []string{"llm"}},
		{document.CategoryGuardrail, []string{"llm"}},
		{document.CategoryVectorStore, []string{"embedding_model"}},
		{document.CategoryMemory, []string{"embedding_model"}},
	},
	document.CategoryVectorStore: {
		{document.CategoryMemory, []string{"vector_store"}},
	},
	document.CategoryTool: {
		{document.CategoryAgent, []string{"tools"}},
	},
	document.CategoryGuardrail: {
		{document.CategoryAgent, []string{"guardrails"}},
		{document.CategoryApp, []string{"guardrails"}},
	},
	document.CategoryAgent: {
		{document.CategoryApp, []string{"agents"}},
		{document.CategoryAgent, []string{"handoffs"}},
	},
	document.CategoryMiddleware: {
		{document.CategoryApp, []string{"middleware"}},
	},
	document.CategoryPrompt: {
		{document.CategoryAgent, []string{"prompt"}},
		{document.CategoryGuardrail, []string{"prompt"}},
	},
	document.CategoryVariable: {
		{document.CategoryPrompt, []string{"variables"}},
	},
	document.CategoryMemory: {
		{document.CategoryAgent, []string{"memory"}},
	},
}

// FieldRef is the inverted view of the table: one field of a dependent
// category together with the category its value references. The exporter
// uses it to decide which fields to rewrite into aliases.
type FieldRef struct {
	Path   []string
	Target document.Category
}

// ReferenceFields returns the reference-capable fields of a dependent
// category, in table order.
func ReferenceFields(dependent document.Category) []FieldRef {
	var out []FieldRef
	for _, target := range document.Categories() {
		for _, r := range rules[target] {
			if r.dependent == dependent {
				out = append(out, FieldRef{Path: r.path, Target: target})
			}
		}
	}
	return out
}
