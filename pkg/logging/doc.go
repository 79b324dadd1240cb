// Package logging provides structured logging for loom, built on the
// standard library slog package.
//
// All log entries carry a subsystem attribute so output can be filtered by
// the part of the application that produced it. The subsystems in use:
//
//   - **Store**: descriptor loading, saving and mutation
//   - **Validator**: deletion validation and round-trip checks
//   - **Export**: anchored YAML serialization
//   - **Check**: the document-wide consistency check
//   - **Watch**: filesystem watching of the descriptor file
//
// # Usage
//
//	import "loom/pkg/logging"
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//	logging.Info("Store", "Loaded descriptor from %s", path)
//	logging.Error("Validator", err, "Round-trip failed for %s", key)
//
// Init must be called once before any logging call; calls made before
// initialization are dropped silently.
package logging
