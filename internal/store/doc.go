// Package store owns the live descriptor document and every mutation of
// it.
//
// The store is the single writer: mutations take its lock, and reads hand
// out deep clones so nothing outside the package can alias its state. The
// reference-integrity engine never sees the live document — it is always
// given a clone or operates inside the store's lock.
//
// AttemptDelete is the validate-then-commit sequence: the deletion is
// validated against the live document and only applied when validation
// returns no diagnostic. Both steps run under one lock acquisition, so no
// other writer can interleave and stale the validation. Outcomes are
// surfaced through the Notifier either way.
//
// Descriptors load from YAML natively and from JSON via the sigs.k8s.io
// YAML bridge. An optional fsnotify Watcher reloads the document when the
// file changes on disk.
package store
