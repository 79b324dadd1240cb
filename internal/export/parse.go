package export

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"loom/internal/dependency"
	"loom/internal/document"
	"loom/internal/reference"
)

// Parse reads a serialized descriptor back into a document. yaml.v3
// resolves aliases and merge keys natively, expanding every alias into a
// full copy of the anchored value; a normalization pass then collapses
// those copies back to the canonical bare-key form at every table-declared
// reference field, so parsing Marshal's own output reproduces an equivalent
// document.
//
// Merge-key flattening is one-way: "<<" is composed into the component's
// own fields during decode and the "extends" relationship is not
// reconstructed, so a parsed document carries the inherited values but no
// longer records where they came from.
//
// An alias whose anchor no longer exists fails here with an "unknown
// anchor" error — the signal the deletion validator relies on.
func Parse(data []byte) (document.Document, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	doc := document.Document(raw)
	normalize(doc)
	return doc, nil
}

// normalize rewrites expanded-object values at reference fields back to the
// bare key of the component they structurally equal. Scalars are left
// untouched: they are already canonical.
//
// Referents are resolved against a frozen pre-normalization clone. An
// expansion must be compared with the value it was expanded from: resolving
// against the live document would let an inner reference collapse first and
// strand every outer expansion that still contains the expanded form
// (app -> agent -> llm, or a handoff to an agent with an llm field).
func normalize(doc document.Document) {
	frozen := doc.Clone()
	for _, category := range document.Categories() {
		components := doc.Components(category)
		for _, key := range document.SortedKeys(components) {
			for _, f := range dependency.ReferenceFields(category) {
				normalizeField(frozen, components[key], f)
			}
		}
	}
}

func normalizeField(frozen document.Document, comp interface{}, f dependency.FieldRef) {
	if len(f.Path) == 0 {
		return
	}
	parentPath, leaf := f.Path[:len(f.Path)-1], f.Path[len(f.Path)-1]
	parent, ok := valueAt(comp, parentPath)
	if !ok {
		return
	}
	m, ok := parent.(map[string]interface{})
	if !ok {
		return
	}
	sub, ok := m[leaf]
	if !ok {
		return
	}

	switch v := sub.(type) {
	case map[string]interface{}:
		if refKey, ok := reference.Referent(v, f.Target, frozen); ok {
			m[leaf] = refKey
		}
	case []interface{}:
		for i, e := range v {
			if _, isMap := e.(map[string]interface{}); !isMap {
				continue
			}
			if refKey, ok := reference.Referent(e, f.Target, frozen); ok {
				v[i] = refKey
			}
		}
	}
}

var unknownAnchorPattern = regexp.MustCompile(`unknown anchor '([^']+)' referenced`)

// DanglingAnchor extracts the anchor name from an undefined-alias parse
// failure, or "" when the error is something else.
func DanglingAnchor(err error) string {
	if err == nil {
		return ""
	}
	m := unknownAnchorPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return ""
	}
	return m[1]
}

// RoundTrip serializes the document and parses the result back. It is the
// authoritative integrity check: any reference whose referent is gone
// surfaces as a dangling alias here, regardless of which field holds it.
func RoundTrip(doc document.Document) (document.Document, error) {
	data, err := Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return parsed, nil
}
