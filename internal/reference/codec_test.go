package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loom/internal/document"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		key   string
		want  Match
	}{
		{"wrapped marker", "ref://sales", "sales", Match{IsReference: true, Exact: true}},
		{"alias marker", "*sales", "sales", Match{IsReference: true, Exact: true}},
		{"bare key", "sales", "sales", Match{IsReference: true, Exact: true}},
		{"wrong key", "ref://sales", "marketing", Match{}},
		{"marker prefix only", "ref://", "sales", Match{}},
		{"non-string value", 42, "sales", Match{}},
		{"nil value", nil, "sales", Match{}},
		{"empty key", "sales", "", Match{}},
		{"substring is not a match", "sales_eu", "sales", Match{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value, tt.key))
		})
	}
}

func TestClassifyName(t *testing.T) {
	m := ClassifyName("Support Agent", "Support Agent")
	assert.True(t, m.IsReference)
	assert.False(t, m.Exact, "name matches must not be exact")

	assert.False(t, ClassifyName("Support Agent", "Other").IsReference)
	assert.False(t, ClassifyName(nil, "Support Agent").IsReference)
	assert.False(t, ClassifyName("", "").IsReference)
}

func TestMarkerTarget(t *testing.T) {
	tests := []struct {
		value  interface{}
		target string
		ok     bool
	}{
		{"ref://sales", "sales", true},
		{"*gpt_a", "gpt_a", true},
		{"sales", "", false},
		{"ref://", "", false},
		{"*", "", false},
		{"*bold text*", "", false},
		{12, "", false},
	}
	for _, tt := range tests {
		target, ok := MarkerTarget(tt.value)
		assert.Equal(t, tt.ok, ok, "MarkerTarget(%v)", tt.value)
		assert.Equal(t, tt.target, target, "MarkerTarget(%v)", tt.value)
	}
}

func codecTestDocument() document.Document {
	return document.Document{
		"resources": map[string]interface{}{
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
		},
	}
}

func TestMatchesExpanded(t *testing.T) {
	doc := codecTestDocument()

	expandedA := map[string]interface{}{
		"name":        "shared-endpoint",
		"model":       "gpt-4o",
		"temperature": 0.2,
	}

	assert.True(t, MatchesExpanded(expandedA, document.CategoryLLM, "gpt_a", doc))

	// Same name, different temperature: must not be conflated.
	assert.False(t, MatchesExpanded(expandedA, document.CategoryLLM, "gpt_b", doc))

	// Missing candidate is a non-match, not a failure.
	assert.False(t, MatchesExpanded(expandedA, document.CategoryLLM, "gpt_c", doc))
	assert.False(t, MatchesExpanded(expandedA, document.CategoryTool, "gpt_a", doc))
}

func TestReferent(t *testing.T) {
	doc := codecTestDocument()

	tests := []struct {
		name  string
		value interface{}
		key   string
		ok    bool
	}{
		{"wrapped marker", "ref://gpt_a", "gpt_a", true},
		{"alias marker", "*gpt_b", "gpt_b", true},
		{"bare key", "gpt_a", "gpt_a", true},
		{"dangling marker", "ref://gpt_c", "", false},
		{"unknown scalar", "nothing", "", false},
		{
			"expanded object",
			map[string]interface{}{"name": "shared-endpoint", "model": "gpt-4o", "temperature": 0.9},
			"gpt_b",
			true,
		},
		{
			"expanded object matching nothing",
			map[string]interface{}{"name": "shared-endpoint"},
			"",
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := Referent(tt.value, document.CategoryLLM, doc)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
		})
	}

	// A bare string matching a name resolves to the lexically first key
	// when several components share the name.
	key, ok := Referent("shared-endpoint", document.CategoryLLM, doc)
	assert.True(t, ok)
	assert.Equal(t, "gpt_a", key)
}
