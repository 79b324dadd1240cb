package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/internal/document"
	"loom/pkg/logging"
)

func init() {
	logging.InitDiscard()
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Failure(msg string) { n.failures = append(n.failures, msg) }

const fixtureYAML = `schemas:
  sales:
    catalog: co
    schema: sales
  marketing:
    catalog: co
    schema: marketing
resources:
  tables:
    orders:
      schema: sales
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFixture(t, "deploy.yaml", fixtureYAML)

	s, err := Load(path, nil)
	require.NoError(t, err)

	doc := s.Document()
	_, ok := doc.Lookup(document.CategorySchema, "sales")
	assert.True(t, ok)
	_, ok = doc.Lookup(document.CategoryTable, "orders")
	assert.True(t, ok)
}

func TestLoadJSON(t *testing.T) {
	path := writeFixture(t, "deploy.json",
		`{"schemas": {"sales": {"catalog": "co", "schema": "sales"}}}`)

	s, err := Load(path, nil)
	require.NoError(t, err)

	_, ok := s.Document().Lookup(document.CategorySchema, "sales")
	assert.True(t, ok)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	var de *DocumentError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "read", de.Op)

	path := writeFixture(t, "bad.yaml", "a: [unclosed")
	_, err = Load(path, nil)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "parse", de.Op)
}

func TestDocumentReturnsClone(t *testing.T) {
	path := writeFixture(t, "deploy.yaml", fixtureYAML)
	s, err := Load(path, nil)
	require.NoError(t, err)

	doc := s.Document()
	doc.Delete(document.CategorySchema, "sales")

	_, ok := s.Document().Lookup(document.CategorySchema, "sales")
	assert.True(t, ok, "mutating a handed-out document must not affect the store")
}

func TestAttemptDeleteBlocked(t *testing.T) {
	path := writeFixture(t, "deploy.yaml", fixtureYAML)
	n := &recordingNotifier{}
	s, err := Load(path, n)
	require.NoError(t, err)

	ok := s.AttemptDelete("schema", "sales")

	assert.False(t, ok)
	require.Len(t, n.failures, 1)
	assert.Contains(t, n.failures[0], `"orders"`)
	_, present := s.Document().Lookup(document.CategorySchema, "sales")
	assert.True(t, present, "blocked deletion must not mutate the document")
}

func TestAttemptDeleteSucceeds(t *testing.T) {
	path := writeFixture(t, "deploy.yaml", fixtureYAML)
	n := &recordingNotifier{}
	s, err := Load(path, n)
	require.NoError(t, err)

	ok := s.AttemptDelete("schema", "marketing")

	assert.True(t, ok)
	require.Len(t, n.successes, 1)
	_, present := s.Document().Lookup(document.CategorySchema, "marketing")
	assert.False(t, present)
}

func TestAttemptDeleteWithFailingApply(t *testing.T) {
	path := writeFixture(t, "deploy.yaml", fixtureYAML)
	n := &recordingNotifier{}
	s, err := Load(path, n)
	require.NoError(t, err)

	ok := s.AttemptDeleteWith("schema", "marketing", func() error {
		return errors.New("storage offline")
	})
	assert.False(t, ok)
	require.Len(t, n.failures, 1)
	assert.Contains(t, n.failures[0], "storage offline")

	ok = s.AttemptDeleteWith("schema", "marketing", func() error {
		panic("boom")
	})
	assert.False(t, ok)
	require.Len(t, n.failures, 2)
	assert.Contains(t, n.failures[1], "boom")
}

func TestAddComponent(t *testing.T) {
	s := New(nil)

	key, err := s.AddComponent(document.CategoryTool, "lookup_order",
		map[string]interface{}{"name": "Lookup Order"})
	require.NoError(t, err)
	assert.Equal(t, "lookup_order", key)

	generated, err := s.AddComponent(document.CategoryTool, "",
		map[string]interface{}{"name": "Anonymous"})
	require.NoError(t, err)
	assert.NotEmpty(t, generated)
	assert.NotEqual(t, "lookup_order", generated)

	_, err = s.AddComponent(document.Category("bogus"), "x", nil)
	assert.Error(t, err)

	doc := s.Document()
	_, ok := doc.Lookup(document.CategoryTool, "lookup_order")
	assert.True(t, ok)
	_, ok = doc.Lookup(document.CategoryTool, generated)
	assert.True(t, ok)
}

func TestSaveRoundTrips(t *testing.T) {
	path := writeFixture(t, "deploy.yaml", fixtureYAML)
	s, err := Load(path, nil)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, s.Save(out))

	reloaded, err := Load(out, nil)
	require.NoError(t, err)
	assert.True(t, document.Equal(
		map[string]interface{}(s.Document()),
		map[string]interface{}(reloaded.Document()),
	))
}
