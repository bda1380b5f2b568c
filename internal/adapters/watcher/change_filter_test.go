package watcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gild/internal/adapters/watcher"
)

func TestChangeFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.scss")
	write := func(s string) {
		require.NoError(t, os.WriteFile(path, []byte(s), 0o600))
	}

	f := watcher.NewChangeFilter()

	write("a { color: red; }")
	assert.True(t, f.Changed(path), "first sighting counts as a change")
	assert.False(t, f.Changed(path), "same content")

	write("a { color: blue; }")
	assert.True(t, f.Changed(path))

	require.NoError(t, os.Remove(path))
	assert.True(t, f.Changed(path), "removal of a known file")
	assert.False(t, f.Changed(path), "removal already reported")
}

func TestChangeFilter_Seed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.js")
	require.NoError(t, os.WriteFile(path, []byte("export {}"), 0o600))

	f := watcher.NewChangeFilter()
	f.Seed(path)

	assert.False(t, f.Changed(path), "touch without edit")
}

func TestChangeFilter_UnknownMissingPath(t *testing.T) {
	f := watcher.NewChangeFilter()
	assert.False(t, f.Changed(filepath.Join(t.TempDir(), "never-existed.js")))
}
