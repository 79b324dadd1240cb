// Package export serializes descriptors to YAML with native anchors,
// aliases and merge keys, and parses that format back.
//
// Every component with at least one inbound reference is anchored under its
// key; every reference site — whatever encoding it currently uses — is
// emitted as an alias to that anchor, so shared definitions are written
// once. A component with an "extends" field is emitted with a merge key
// ("<<") composing its parent's fields.
//
// The editing-time wrapped-marker form ("ref://...") never appears in
// output: it either resolves to an alias or, when its target is missing,
// becomes a deliberately dangling alias that fails the re-parse. That
// failure mode is the deletion validator's ground truth.
//
// Output is deterministic: fixed section order (chosen so anchors precede
// the aliases that use them) and lexical ordering everywhere else.
package export
