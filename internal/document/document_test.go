package document

import (
	"testing"
)

func testDocument() Document {
	return Document{
		"schemas": map[string]interface{}{
			"sales": map[string]interface{}{
				"catalog": "co",
				"schema":  "sales",
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
					"temperature": 0.2,
				},
			},
		},
		"agents": map[string]interface{}{
			"support": map[string]interface{}{
				"name":  "Support Agent",
				"tools": []interface{}{"lookup_order"},
			},
		},
	}
}

func TestLookup(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		name     string
		category Category
		key      string
		want     bool
	}{
		{"top-level section", CategorySchema, "sales", true},
		{"nested resource section", CategoryTable, "orders", true},
		{"missing key", CategorySchema, "marketing", false},
		{"absent section", CategoryTool, "lookup_order", false},
		{"unknown category", Category("bogus"), "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := doc.Lookup(tt.category, tt.key)
			if ok != tt.want {
				t.Errorf("Lookup(%s, %s) = %v, want %v", tt.category, tt.key, ok, tt.want)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	doc := testDocument()

	if !doc.Delete(CategoryTable, "orders") {
		t.Fatal("Delete should report removal of an existing component")
	}
	if _, ok := doc.Lookup(CategoryTable, "orders"); ok {
		t.Error("component still present after Delete")
	}
	if doc.Delete(CategoryTable, "orders") {
		t.Error("second Delete of the same component should report false")
	}
	if doc.Delete(Category("bogus"), "x") {
		t.Error("Delete of unknown category should be a no-op")
	}
}

func TestCloneIsolation(t *testing.T) {
	doc := testDocument()
	clone := doc.Clone()

	if !Equal(map[string]interface{}(doc), map[string]interface{}(clone)) {
		t.Fatal("clone is not structurally equal to the original")
	}

	clone.Delete(CategorySchema, "sales")
	clone.Section("resources", "tables")["orders"].(map[string]interface{})["schema"] = "changed"

	if _, ok := doc.Lookup(CategorySchema, "sales"); !ok {
		t.Error("deleting from the clone removed the component from the original")
	}
	orig := doc.Section("resources", "tables")["orders"].(map[string]interface{})["schema"]
	if orig != "sales" {
		t.Error("mutating the clone leaked into the original")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b interface{}
		want bool
	}{
		{"identical scalars", "x", "x", true},
		{"differing scalars", "x", "y", false},
		{"int vs float same value", 1, 1.0, true},
		{"int vs float differing", 1, 1.5, false},
		{"nil vs nil", nil, nil, true},
		{"nil vs scalar", nil, "x", false},
		{
			"mapping key order irrelevant",
			map[string]interface{}{"a": 1, "b": 2},
			map[string]interface{}{"b": 2, "a": 1},
			true,
		},
		{
			"mapping extra key",
			map[string]interface{}{"a": 1},
			map[string]interface{}{"a": 1, "b": 2},
			false,
		},
		{
			"sequence order matters",
			[]interface{}{"a", "b"},
			[]interface{}{"b", "a"},
			false,
		},
		{
			"nested trees",
			map[string]interface{}{"x": []interface{}{map[string]interface{}{"n": 1}}},
			map[string]interface{}{"x": []interface{}{map[string]interface{}{"n": 1.0}}},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestComponentName(t *testing.T) {
	if got := ComponentName(map[string]interface{}{"name": "Support Agent"}); got != "Support Agent" {
		t.Errorf("ComponentName = %q", got)
	}
	if got := ComponentName("scalar"); got != "" {
		t.Errorf("ComponentName on scalar = %q, want empty", got)
	}
	if got := ComponentName(map[string]interface{}{"name": 42}); got != "" {
		t.Errorf("ComponentName with non-string name = %q, want empty", got)
	}
}
