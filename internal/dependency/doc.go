// Package dependency discovers which components of a descriptor reference
// a given component, and through which fields.
//
// # Core Concepts
//
// Record: the fact "component Key of category Type references the queried
// component via Field". Records are ephemeral — computed per call, never
// stored — so they can never go stale against the live document.
//
// Table: the closed enumeration of which fields of which component
// categories may reference which other categories (table.go). This is data,
// not logic: adding a new cross-reference field to the descriptor format
// means adding one table row, and both the finder and the exporter's alias
// emission pick it up.
//
// # Matching
//
// For each candidate field the finder checks, in order:
//
//  1. scalar forms against the component key (wrapped marker, alias
//     marker, bare key), via the walker
//  2. scalar bare-string form against the component's name field, at the
//     field itself or its direct sequence elements only
//  3. expanded-object form, by deep structural equality against the
//     component's currently configured value
//
// Key-based matches always run before structural ones, so a key collision
// wins over a coincidental value collision.
//
// # Limits
//
// Fields absent from the table are invisible here. The round-trip deletion
// validator exists precisely to backstop that gap; this package's job is
// the precise, friendly message for the fields it does model.
package dependency
