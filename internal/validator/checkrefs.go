package validator

import (
	"fmt"
	"strings"

	"loom/internal/dependency"
	"loom/internal/document"
	"loom/internal/reference"
)

// BrokenReference reports one table-declared reference field whose value
// does not resolve to any existing component.
type BrokenReference struct {
	Type  document.Category
	Key   string
	Field string
	Value interface{}
}

func (b BrokenReference) String() string {
	return fmt.Sprintf("%s %q: field %s does not resolve (%v)", b.Type, b.Key, b.Field, b.Value)
}

// CheckReferences scans every table-declared reference field in the
// document and reports the ones whose value — in any encoding — resolves
// to no component. This complements the round trip: it catches dangling
// bare-string references, which serialize as plain scalars and therefore
// never fail a re-parse.
func CheckReferences(doc document.Document) []BrokenReference {
	var broken []BrokenReference
	for _, category := range document.Categories() {
		components := doc.Components(category)
		for _, key := range document.SortedKeys(components) {
			for _, f := range dependency.ReferenceFields(category) {
				base := strings.Join(f.Path, ".")
				sub, ok := fieldValue(components[key], f.Path)
				if !ok {
					continue
				}
				if seq, isSeq := sub.([]interface{}); isSeq {
					for i, e := range seq {
						if _, ok := reference.Referent(e, f.Target, doc); !ok {
							broken = append(broken, BrokenReference{
								Type: category, Key: key,
								Field: fmt.Sprintf("%s[%d]", base, i), Value: e,
							})
						}
					}
					continue
				}
				if _, ok := reference.Referent(sub, f.Target, doc); !ok {
					broken = append(broken, BrokenReference{
						Type: category, Key: key, Field: base, Value: sub,
					})
				}
			}
		}
	}
	return broken
}

func fieldValue(comp interface{}, path []string) (interface{}, bool) {
	cur := comp
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
