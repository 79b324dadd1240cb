// Package document defines the in-memory model of an agent deployment
// descriptor and the value-level operations the rest of the engine builds
// on.
//
// A descriptor is a nested mapping: section name -> component key ->
// component value. Component values are plain interface{} trees as produced
// by yaml.v3 or JSON unmarshalling, never typed structs — the engine must
// inspect arbitrary shapes without a fixed schema per category.
//
// # Core Concepts
//
// Category: a kind of component (schema, tool, agent, ...). Each category
// maps to the path of its section in the document; some sections are nested
// under "resources" (tables, databases, llms, vector_stores).
//
// Identity: a component is identified by (category, key). Keys are expected
// to be unique across the whole document because the serialized format uses
// them as anchor names.
//
// # Operations
//
//   - Lookup/Components/Section: read-only access to component mappings
//   - Clone/CloneValue: deep value-level copies with no sharing
//   - Equal: structural equality (order-independent mappings,
//     order-dependent sequences, numeric value comparison)
//   - Delete: removal of a component, used on clones during validation
//
// # Ownership
//
// The live document is owned by the store. Functions here never retain a
// reference across calls and never mutate their input, except Delete which
// validation applies to a clone and the store applies to the live document
// under its own lock.
package document
