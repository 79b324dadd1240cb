// Package walker provides generic, type-agnostic traversal of descriptor
// values, locating every path at which a scalar reference to a given
// component occurs. It knows nothing about component categories; the
// dependency package supplies that knowledge.
package walker
