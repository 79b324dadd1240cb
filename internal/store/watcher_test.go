package store

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/internal/document"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	path := writeFixture(t, "deploy.yaml", fixtureYAML)
	s, err := Load(path, nil)
	require.NoError(t, err)

	reloaded := make(chan struct{}, 1)
	w := NewWatcher(s, func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	require.NoError(t, w.Start())
	defer w.Stop()

	updated := fixtureYAML + `tools:
  lookup_order:
    name: Lookup Order
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload after the file changed")
	}

	_, ok := s.Document().Lookup(document.CategoryTool, "lookup_order")
	assert.True(t, ok, "reload should pick up the new component")
}

func TestWatcherStopIdempotent(t *testing.T) {
	path := writeFixture(t, "deploy.yaml", fixtureYAML)
	s, err := Load(path, nil)
	require.NoError(t, err)

	w := NewWatcher(s, nil)
	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
}
