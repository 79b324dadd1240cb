package store

import (
	"fmt"
	"path/filepath"
)

// DocumentError is a structured error for descriptor file operations.
type DocumentError struct {
	Path string `json:"path"` // Full path to the descriptor file
	Op   string `json:"op"`   // Operation that failed (read, parse, serialize, write)
	Err  error  `json:"-"`
}

// Error implements the error interface.
func (de *DocumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", de.Op, filepath.Base(de.Path), de.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (de *DocumentError) Unwrap() error {
	return de.Err
}
