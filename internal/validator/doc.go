// Package validator decides whether deleting a component would leave the
// descriptor with a dangling reference.
//
// Two lines of defense run in order. The dependency table gives a precise
// answer for every modeled cross-reference field, producing a Diagnostic
// that enumerates each blocking reference. Then the clone-serialize-reparse
// round trip catches what the table does not cover: any alias or marker
// anywhere in the document whose referent is gone fails the re-parse with
// an undefined anchor, at the cost of only naming the referent, not the
// field responsible.
//
// The package never throws across its boundary — every failure mode,
// including internal faults, is converted into a returned Diagnostic (or
// nil for "deletion is safe").
package validator
