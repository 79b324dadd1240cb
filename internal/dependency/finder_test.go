package dependency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/internal/document"
)

func descriptorFixture() document.Document {
	return document.Document{
		"schemas": map[string]interface{}{
			"sales": map[string]interface{}{
				"catalog": "co",
				"schema":  "sales",
			},
			"marketing": map[string]interface{}{
				"catalog": "co",
				"schema":  "marketing",
			},
		},
		"resources": map[string]interface{}{
			"tables": map[string]interface{}{
				"orders": map[string]interface{}{
					"schema": "sales",
				},
			},
			"llms": map[string]interface{}{
				"gpt_a": map[string]interface{}{
					"name":        "shared-endpoint",
					"model":       "gpt-4o",
					"temperature": 0.2,
				},
				"gpt_b": map[string]interface{}{
					"name":        "shared-endpoint",
					"model":       "gpt-4o",
					"temperature": 0.9,
				},
			},
			"vector_stores": map[string]interface{}{
				"docs_index": map[string]interface{}{
					"source_table": map[string]interface{}{
						"table":  "orders",
						"schema": "ref://sales",
					},
					"index": map[string]interface{}{
						"schema": "*sales",
					},
					"embedding_model": "gpt_b",
				},
			},
		},
		"tools": map[string]interface{}{
			"lookup_order": map[string]interface{}{
				"name":   "Lookup Order",
				"schema": "sales",
			},
		},
		"agents": map[string]interface{}{
			"support": map[string]interface{}{
				"name":  "Support Agent",
				"llm":   map[string]interface{}{"name": "shared-endpoint", "model": "gpt-4o", "temperature": 0.2},
				"tools": []interface{}{"lookup_order"},
			},
		},
	}
}

func TestSchemaDeletionBlockedScenario(t *testing.T) {
	doc := descriptorFixture()

	records := FindSchemaDependencies(doc, "sales")

	assert.Contains(t, records, Record{Type: document.CategoryTable, Key: "orders", Field: "schema"})
	assert.Contains(t, records, Record{Type: document.CategoryTool, Key: "lookup_order", Field: "schema"})
	assert.Contains(t, records, Record{Type: document.CategoryVectorStore, Key: "docs_index", Field: "source_table.schema"})
	assert.Contains(t, records, Record{Type: document.CategoryVectorStore, Key: "docs_index", Field: "index.schema"})
}

func TestSchemaDeletionAllowedScenario(t *testing.T) {
	doc := descriptorFixture()

	assert.Empty(t, FindSchemaDependencies(doc, "marketing"))
}

func TestExpandedObjectFalsePositiveAvoided(t *testing.T) {
	doc := descriptorFixture()

	// The support agent embeds gpt_a's full value. gpt_b shares its name
	// but differs in temperature, so only gpt_a has a dependent agent.
	a := FindLLMDependencies(doc, "gpt_a")
	require.Len(t, a, 1)
	assert.Equal(t, Record{Type: document.CategoryAgent, Key: "support", Field: "llm"}, a[0])

	b := FindLLMDependencies(doc, "gpt_b")
	require.Len(t, b, 1, "gpt_b is still referenced by the vector store embedding_model")
	assert.Equal(t, Record{Type: document.CategoryVectorStore, Key: "docs_index", Field: "embedding_model"}, b[0])
}

func TestSequenceFieldRecordsIndex(t *testing.T) {
	doc := descriptorFixture()

	records := FindToolDependencies(doc, "lookup_order")
	require.Len(t, records, 1)
	assert.Equal(t, Record{Type: document.CategoryAgent, Key: "support", Field: "tools[0]"}, records[0])
}

func TestNameBasedMatch(t *testing.T) {
	doc := descriptorFixture()
	doc["agents"].(map[string]interface{})["escalation"] = map[string]interface{}{
		"name":     "Escalation Agent",
		"handoffs": []interface{}{"Support Agent"},
	}

	records := FindAgentDependencies(doc, "support")
	require.Len(t, records, 1)
	assert.Equal(t, Record{Type: document.CategoryAgent, Key: "escalation", Field: "handoffs[0]"}, records[0])
}

func TestSelfReferenceNotReported(t *testing.T) {
	doc := descriptorFixture()
	doc["agents"].(map[string]interface{})["support"].(map[string]interface{})["handoffs"] =
		[]interface{}{"support"}

	assert.Empty(t, FindAgentDependencies(doc, "support"))
}

func TestAbsentSectionsYieldNoRecords(t *testing.T) {
	doc := document.Document{}

	assert.Empty(t, FindSchemaDependencies(doc, "sales"))
	assert.Empty(t, FindMemoryDependencies(doc, "m1"))
	assert.Empty(t, Find(doc, document.Category("bogus"), "x"))
	assert.Empty(t, Find(doc, document.CategorySchema, ""))
}

func TestWrappedAndAliasMarkersMatch(t *testing.T) {
	doc := descriptorFixture()

	records := FindSchemaDependencies(doc, "sales")

	var fields []string
	for _, r := range records {
		if r.Type == document.CategoryVectorStore {
			fields = append(fields, r.Field)
		}
	}
	assert.ElementsMatch(t, []string{"source_table.schema", "index.schema"}, fields)
}

func TestReferenceFieldsInvertedView(t *testing.T) {
	fields := ReferenceFields(document.CategoryAgent)

	var targets []document.Category
	for _, f := range fields {
		targets = append(targets, f.Target)
	}
	assert.Contains(t, targets, document.CategoryLLM)
	assert.Contains(t, targets, document.CategoryTool)
	assert.Contains(t, targets, document.CategoryPrompt)
	assert.Contains(t, targets, document.CategoryMemory)
	assert.Contains(t, targets, document.CategoryGuardrail)
	assert.Contains(t, targets, document.CategoryAgent)
}
