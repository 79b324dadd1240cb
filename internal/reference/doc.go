// Package reference recognizes and normalizes the encodings a component
// reference can take inside a descriptor.
//
// A reference to component K can appear four ways:
//
//  1. wrapped marker: "ref://K" — the editing-time form, never exported
//  2. alias marker: "*K" — the serialized form, a document-level alias
//  3. bare string: K's key or its name field
//  4. expanded object: a full structural copy of K's configured value
//
// All four are semantically the same fact: the enclosing component depends
// on K. The codec is pure and total — malformed input classifies as a
// non-match rather than failing.
package reference
