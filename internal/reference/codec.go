package reference

import (
	"regexp"
	"strings"

	"loom/internal/document"
)

// The two marker prefixes a reference can be encoded with.
//
// WrappedPrefix is the editing-time form: it exists only in the in-memory
// document while the user assembles it and must never survive export.
// AliasPrefix is the serialized form, denoting a document-level alias to an
// anchored component.
const (
	WrappedPrefix = "ref://"
	AliasPrefix   = "*"
)

// Match is the result of classifying a scalar as a possible reference.
type Match struct {
	IsReference bool
	// Exact is true for the marker forms and the bare key form, which
	// match by string equality. It is false for name-based matches, where
	// two components may legitimately share a name.
	Exact bool
}

var noMatch = Match{}

// Classify tests whether value is a scalar reference to the component with
// the given key. It recognizes the wrapped-marker, alias-marker and bare
// string forms. Expanded-object matching needs the document and lives in
// MatchesExpanded.
//
// Classify is total: any non-string value, empty key or malformed input
// yields a non-match, never an error.
func Classify(value interface{}, key string) Match {
	s, ok := value.(string)
	if !ok || key == "" {
		return noMatch
	}
	switch s {
	case WrappedPrefix + key, AliasPrefix + key, key:
		return Match{IsReference: true, Exact: true}
	}
	return noMatch
}

// ClassifyName tests whether value is a bare-string reference to a
// component by its human-readable name. Name matches are not exact: they
// are only trusted when the key forms did not match anything.
func ClassifyName(value interface{}, name string) Match {
	s, ok := value.(string)
	if !ok || name == "" {
		return noMatch
	}
	if s == name {
		return Match{IsReference: true, Exact: false}
	}
	return noMatch
}

// MatchesExpanded reports whether value is an expanded-object reference to
// the component (category, key): a full copy of the component's currently
// configured value, compared structurally. Equality is deep, order
// independent for mappings and order dependent for sequences, so two
// components that merely share a name field are never conflated.
//
// If the candidate component does not exist the result is false, never an
// error.
func MatchesExpanded(value interface{}, category document.Category, key string, doc document.Document) bool {
	configured, ok := doc.Lookup(category, key)
	if !ok {
		return false
	}
	return document.Equal(value, configured)
}

// keyPattern is the character set component keys are drawn from. Strings
// whose marker remainder falls outside it (say, markdown like "*bold*") are
// ordinary scalars, not references.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// MarkerTarget extracts the referent key from a marker-form string: the
// remainder after the wrapped or alias prefix. The second return is false
// when the value is not a marker string.
func MarkerTarget(value interface{}) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	if rest, found := strings.CutPrefix(s, WrappedPrefix); found && keyPattern.MatchString(rest) {
		return rest, true
	}
	if rest, found := strings.CutPrefix(s, AliasPrefix); found && keyPattern.MatchString(rest) {
		return rest, true
	}
	return "", false
}

// Referent normalizes any of the four reference encodings to the canonical
// key of the component it denotes within one category. It prefers key-based
// matching (markers, bare key) over name matching, and name matching over
// structural matching, so a key collision always wins over a coincidental
// name or value collision.
func Referent(value interface{}, category document.Category, doc document.Document) (string, bool) {
	components := doc.Components(category)
	if components == nil {
		return "", false
	}

	if target, ok := MarkerTarget(value); ok {
		if _, exists := components[target]; exists {
			return target, true
		}
		return "", false
	}

	if s, ok := value.(string); ok {
		if _, exists := components[s]; exists {
			return s, true
		}
		for _, key := range document.SortedKeys(components) {
			if document.ComponentName(components[key]) == s {
				return key, true
			}
		}
		return "", false
	}

	for _, key := range document.SortedKeys(components) {
		if document.Equal(value, components[key]) {
			return key, true
		}
	}
	return "", false
}
