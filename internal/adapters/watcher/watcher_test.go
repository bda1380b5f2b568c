package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gild/internal/adapters/watcher"
	"go.trai.ch/gild/internal/core/ports"
	"go.trai.ch/gild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func startWatcher(t *testing.T, roots, ignore []string) (*watcher.Watcher, <-chan ports.WatchEvent) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	require.NoError(t, w.Start(ctx, roots, ignore))

	ch := make(chan ports.WatchEvent, 64)
	go func() {
		for ev := range w.Events() {
			ch <- ev
		}
		close(ch)
	}()
	return w, ch
}

func waitFor(t *testing.T, ch <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			require.True(t, ok, "watcher stopped before %s was seen", path)
			if ev.Path == path {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "scss")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	_, events := startWatcher(t, []string{root}, nil)

	path := filepath.Join(nested, "main.scss")
	require.NoError(t, os.WriteFile(path, []byte("a{}"), 0o600))

	ev := waitFor(t, events, path)
	assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, ev.Operation)
}

func TestWatcher_FollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	_, events := startWatcher(t, []string{root}, nil)

	dir := filepath.Join(root, "js")
	require.NoError(t, os.Mkdir(dir, 0o750))
	waitFor(t, events, dir)

	path := filepath.Join(dir, "app.js")
	require.NoError(t, os.WriteFile(path, []byte("export {}"), 0o600))
	waitFor(t, events, path)
}

func TestWatcher_SkipsIgnoredAndVendorDirs(t *testing.T) {
	root := t.TempDir()
	dist := filepath.Join(root, "dist")
	modules := filepath.Join(root, "node_modules", "jquery")
	for _, d := range []string{dist, modules} {
		require.NoError(t, os.MkdirAll(d, 0o750))
	}

	_, events := startWatcher(t, []string{root}, []string{dist})

	require.NoError(t, os.WriteFile(filepath.Join(dist, "main.css"), []byte("a{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(modules, "index.js"), []byte("x"), 0o600))
	marker := filepath.Join(root, "marker.txt")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o600))

	// Events arrive in order; anything before the marker must not come from skipped dirs.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Path == marker {
				return
			}
			assert.NotContains(t, ev.Path, "node_modules")
			assert.NotEqual(t, filepath.Join(dist, "main.css"), ev.Path)
		case <-timeout:
			t.Fatal("marker event never arrived")
		}
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, _ := startWatcher(t, []string{t.TempDir()}, nil)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
