package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"

	"loom/internal/document"
	"loom/internal/validator"
	"loom/pkg/logging"
)

// Notifier receives the outcome of store mutations so the surrounding
// application can surface them to the user.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// nopNotifier swallows notifications when the caller does not provide one.
type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Failure(string) {}

// Store owns the live descriptor document. It is the single writer: every
// mutation goes through its lock, and reads hand out clones so no caller
// can alias internal state.
type Store struct {
	mu       sync.RWMutex
	doc      document.Document
	path     string
	notifier Notifier
}

// New creates a store around an empty descriptor.
func New(notifier Notifier) *Store {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Store{doc: document.Document{}, notifier: notifier}
}

// Load reads the descriptor at path into the store, replacing the current
// document. YAML is the native format; files ending in .json are converted
// through the YAML-JSON bridge.
func Load(path string, notifier Notifier) (*Store, error) {
	s := New(notifier)
	if err := s.Reload(path); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the descriptor from path.
func (s *Store) Reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &DocumentError{Path: path, Op: "read", Err: err}
	}

	var raw map[string]interface{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = sigsyaml.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return &DocumentError{Path: path, Op: "parse", Err: err}
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	s.mu.Lock()
	s.doc = document.Document(raw)
	s.path = path
	s.mu.Unlock()

	logging.Info("Store", "Loaded descriptor from %s", path)
	return nil
}

// Path returns the file the descriptor was loaded from, or "".
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Document returns a deep clone of the live document. Callers may mutate
// the clone freely.
func (s *Store) Document() document.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Save writes the live document to path as plain YAML, without anchors.
// Anchored output is the exporter's job; Save preserves the editing-time
// encodings exactly.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	doc := s.doc.Clone()
	s.mu.RUnlock()

	data, err := yaml.Marshal(map[string]interface{}(doc))
	if err != nil {
		return &DocumentError{Path: path, Op: "serialize", Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &DocumentError{Path: path, Op: "write", Err: err}
	}
	logging.Info("Store", "Saved descriptor to %s", path)
	return nil
}

// AddComponent inserts a component value under (category, key), creating
// the section path as needed. An empty key gets a generated one, as happens
// when importing components that carry only a name. The key used is
// returned.
func (s *Store) AddComponent(category document.Category, key string, value interface{}) (string, error) {
	path := document.SectionPath(category)
	if path == nil {
		return "", fmt.Errorf("unknown component category %q", category)
	}
	if key == "" {
		key = strings.ReplaceAll(uuid.NewString(), "-", "_")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := map[string]interface{}(s.doc)
	for _, p := range path {
		next, ok := cur[p].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[p] = next
		}
		cur = next
	}
	cur[key] = document.CloneValue(value)

	logging.Debug("Store", "Added %s %q", category, key)
	return key, nil
}

// AttemptDelete validates that removing (componentType, key) leaves no
// dangling reference, and only then applies the deletion. The sequence is
// strictly validate-then-commit under the store lock, so no other mutation
// can interleave and stale the validation result.
//
// The outcome is reported through the notifier either way; the return
// value says whether the deletion was committed.
func (s *Store) AttemptDelete(componentType string, key string) bool {
	return s.AttemptDeleteWith(componentType, key, func() error {
		category := document.Category(componentType)
		if document.SectionPath(category) == nil {
			// Validation already allowed it; nothing to remove.
			return nil
		}
		s.doc.Delete(category, key)
		return nil
	})
}

// AttemptDeleteWith is AttemptDelete with a caller-supplied mutation. The
// callback runs under the store lock, after validation succeeded; a panic
// or error from it becomes a failure notification rather than propagating.
func (s *Store) AttemptDeleteWith(componentType string, key string, apply func() error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if diag := validator.ValidateDeletion(s.doc, componentType, key); diag != nil {
		logging.Warn("Store", "Deletion of %s %q blocked: %s", componentType, key, diag.Message)
		s.notifier.Failure(diag.Error())
		return false
	}

	if err := s.runApply(apply); err != nil {
		logging.Error("Store", err, "Deletion of %s %q failed", componentType, key)
		s.notifier.Failure(fmt.Sprintf("Failed to delete %s %q: %v.", componentType, key, err))
		return false
	}

	s.notifier.Success(fmt.Sprintf("Deleted %s %q.", componentType, key))
	return true
}

func (s *Store) runApply(apply func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mutation panicked: %v", r)
		}
	}()
	return apply()
}
