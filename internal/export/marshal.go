package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"loom/internal/dependency"
	"loom/internal/document"
	"loom/internal/reference"
)

// sectionOrder fixes the emission order of sections so that anchored
// components are defined before the aliases that reference them. Sections
// absent from the document are skipped; sections not listed here are
// appended alphabetically and serialized as opaque trees.
var sectionOrder = []string{
	"schemas",
	"resources",
	"variables",
	"prompts",
	"tools",
	"guardrails",
	"memory",
	"middleware",
	"agents",
	"app",
}

// sectionCategories maps a section path (joined with "/") to the component
// category stored there.
var sectionCategories = func() map[string]document.Category {
	m := make(map[string]document.Category)
	for _, c := range document.Categories() {
		m[strings.Join(document.SectionPath(c), "/")] = c
	}
	return m
}()

// Marshal serializes a descriptor to YAML. Components with at least one
// inbound reference are given an anchor named after their key, reference
// sites are emitted as aliases, and a component carrying an "extends" field
// is emitted with a merge key composing its parent's fields. The
// wrapped-marker form never survives marshalling.
//
// The output is deterministic: fixed section order, lexical component and
// field order.
func Marshal(doc document.Document) ([]byte, error) {
	b := &builder{
		doc:      doc,
		anchored: anchoredKeys(doc),
		emitted:  map[string]bool{},
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, section := range orderedSections(doc) {
		node, err := b.sectionNode([]string{section}, doc[section])
		if err != nil {
			return nil, fmt.Errorf("serializing section %s: %w", section, err)
		}
		root.Content = append(root.Content, scalarNode(section), node)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orderedSections(doc document.Document) []string {
	known := map[string]bool{}
	var out []string
	for _, s := range sectionOrder {
		known[s] = true
		if _, ok := doc[s]; ok {
			out = append(out, s)
		}
	}
	var extra []string
	for s := range doc {
		if !known[s] {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// anchoredKeys computes which component keys receive an anchor: every
// component with at least one inbound reference per the dependency table,
// every target of a marker-form string anywhere in the document, and every
// extends parent. Keys are assumed unique across categories, since they
// double as document-level anchor names.
func anchoredKeys(doc document.Document) map[string]bool {
	anchored := map[string]bool{}
	for _, category := range document.Categories() {
		components := doc.Components(category)
		for key := range components {
			if anchored[key] {
				continue
			}
			if len(dependency.Find(doc, category, key)) > 0 {
				anchored[key] = true
			}
		}
		for _, comp := range components {
			if parent, ok := extendsParent(comp); ok {
				if _, exists := components[parent]; exists {
					anchored[parent] = true
				}
			}
		}
	}
	for target := range markerTargets(map[string]interface{}(doc), nil) {
		if componentExistsIn(doc, target) {
			anchored[target] = true
		}
	}
	return anchored
}

// markerTargets collects the target key of every marker-form string in the
// tree, so components referenced only from unmodeled fields (middleware
// arguments, say) still receive an anchor.
func markerTargets(value interface{}, acc map[string]bool) map[string]bool {
	if acc == nil {
		acc = map[string]bool{}
	}
	switch v := value.(type) {
	case map[string]interface{}:
		for _, e := range v {
			markerTargets(e, acc)
		}
	case []interface{}:
		for _, e := range v {
			markerTargets(e, acc)
		}
	default:
		if target, ok := reference.MarkerTarget(v); ok {
			acc[target] = true
		}
	}
	return acc
}

func componentExistsIn(doc document.Document, key string) bool {
	for _, category := range document.Categories() {
		if _, ok := doc.Lookup(category, key); ok {
			return true
		}
	}
	return false
}

func extendsParent(comp interface{}) (string, bool) {
	m, ok := comp.(map[string]interface{})
	if !ok {
		return "", false
	}
	parent, ok := m["extends"].(string)
	return parent, ok && parent != ""
}

type builder struct {
	doc      document.Document
	anchored map[string]bool
	emitted  map[string]bool
}

// sectionNode serializes one section, recursing through nested subsections
// (resources/*) until it reaches a component mapping.
func (b *builder) sectionNode(path []string, value interface{}) (*yaml.Node, error) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return b.valueNode(value, nil, "")
	}

	if category, ok := sectionCategories[strings.Join(path, "/")]; ok {
		return b.componentsNode(category, m)
	}

	// Not a component section itself; its children may be (resources).
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range document.SortedKeys(m) {
		child, err := b.sectionNode(append(path, k), m[k])
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, scalarNode(k), child)
	}
	return node, nil
}

// componentsNode serializes a component mapping, emitting parents of
// extends chains before their children so merge aliases always resolve.
func (b *builder) componentsNode(category document.Category, components map[string]interface{}) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range extendsOrder(components) {
		child, err := b.componentNode(category, key, components[key])
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", key, err)
		}
		if b.anchored[key] {
			child.Anchor = key
		}
		b.emitted[key] = true
		node.Content = append(node.Content, scalarNode(key), child)
	}
	return node, nil
}

// extendsOrder returns component keys lexically sorted, except that an
// extends parent always precedes its children.
func extendsOrder(components map[string]interface{}) []string {
	keys := document.SortedKeys(components)
	var out []string
	placed := map[string]bool{}
	var place func(key string, trail map[string]bool)
	place = func(key string, trail map[string]bool) {
		if placed[key] || trail[key] {
			return
		}
		trail[key] = true
		if parent, ok := extendsParent(components[key]); ok {
			if _, exists := components[parent]; exists {
				place(parent, trail)
			}
		}
		placed[key] = true
		out = append(out, key)
	}
	for _, k := range keys {
		place(k, map[string]bool{})
	}
	return out
}

// componentNode serializes one component value. Table-declared reference
// fields whose values resolve to an existing, already-emitted component are
// rewritten into aliases regardless of which encoding they currently use.
func (b *builder) componentNode(category document.Category, key string, value interface{}) (*yaml.Node, error) {
	aliases := map[string]string{}
	for _, f := range dependency.ReferenceFields(category) {
		sub, ok := valueAt(value, f.Path)
		if !ok {
			continue
		}
		base := strings.Join(f.Path, ".")
		if seq, ok := sub.([]interface{}); ok {
			for i, e := range seq {
				if refKey, ok := b.resolveEmitted(e, f.Target); ok && refKey != key {
					aliases[fmt.Sprintf("%s[%d]", base, i)] = refKey
				}
			}
		} else if refKey, ok := b.resolveEmitted(sub, f.Target); ok && refKey != key {
			aliases[base] = refKey
		}
	}
	return b.valueNode(value, aliases, "")
}

// resolveEmitted resolves any reference encoding to its referent key, but
// only when the referent is anchored and already emitted — aliases must
// never point forward in the document.
func (b *builder) resolveEmitted(value interface{}, target document.Category) (string, bool) {
	refKey, ok := reference.Referent(value, target, b.doc)
	if !ok || !b.anchored[refKey] || !b.emitted[refKey] {
		return "", false
	}
	return refKey, true
}

// valueNode serializes an arbitrary descriptor value, consulting the alias
// plan for the enclosing component and converting stray marker strings.
func (b *builder) valueNode(value interface{}, aliases map[string]string, path string) (*yaml.Node, error) {
	if refKey, ok := aliases[path]; ok {
		return aliasNode(refKey), nil
	}

	if target, ok := reference.MarkerTarget(value); ok {
		// A marker outside any table field. If the target exists and is
		// already anchored, alias it; if it exists but cannot be aliased
		// yet, fall back to the bare key, which still resolves. A target
		// that does not exist becomes a dangling alias on purpose — that
		// is how the round-trip validator sees it.
		if b.componentExists(target) {
			if b.anchored[target] && b.emitted[target] {
				return aliasNode(target), nil
			}
			return scalarNode(target), nil
		}
		return aliasNode(target), nil
	}

	switch v := value.(type) {
	case map[string]interface{}:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		parent, hasParent := extendsParent(v)
		// A missing parent is emitted as a dangling merge alias so the
		// round-trip surfaces it.
		merged := hasParent && path == "" && (b.emitted[parent] || !b.componentExists(parent))
		if merged {
			node.Content = append(node.Content, mergeKeyNode(), aliasNode(parent))
		}
		for _, k := range document.SortedKeys(v) {
			if merged && k == "extends" {
				continue
			}
			child, err := b.valueNode(v[k], aliases, joinPath(path, k))
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, scalarNode(k), child)
		}
		return node, nil
	case []interface{}:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, e := range v {
			child, err := b.valueNode(e, aliases, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(value); err != nil {
			return nil, err
		}
		return n, nil
	}
}

func (b *builder) componentExists(key string) bool {
	return componentExistsIn(b.doc, key)
}

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

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func scalarNode(s string) *yaml.Node {
	n := &yaml.Node{}
	_ = n.Encode(s)
	return n
}

func aliasNode(anchor string) *yaml.Node {
	return &yaml.Node{Kind: yaml.AliasNode, Value: anchor}
}

func mergeKeyNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!merge", Value: "<<"}
}
