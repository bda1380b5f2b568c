package app_test

import (
	"context"
	"iter"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gild/internal/app"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
	"go.uber.org/mock/gomock"
)

// eventFeed backs the watcher mock with a channel the test writes to.
type eventFeed struct {
	ch   chan ports.WatchEvent
	once sync.Once
}

func (e *eventFeed) events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range e.ch {
			if !yield(ev) {
				return
			}
		}
	}
}

func (e *eventFeed) stop() error {
	e.once.Do(func() { close(e.ch) })
	return nil
}

func TestClassify(t *testing.T) {
	tests := map[string]int{
		"src/scss/main.scss": 1,
		"src/scss/old.SASS":  1,
		"src/css/vendor.css": 1,
		"src/js/app.js":      2,
		"src/js/mod.mjs":     2,
		"src/js/view.tsx":    2,
		"src/img/logo.png":   0,
		"README":             0,
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, want, app.Classify(path))
		})
	}
}

func TestApp_Watch_RebuildsScriptsOnChange(t *testing.T) {
	f := newFixture(t)
	feed := &eventFeed{ch: make(chan ports.WatchEvent, 8)}

	f.watcher.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, roots, ignore []string) error {
			assert.Equal(t, []string{
				filepath.Join(f.root, "src"),
				filepath.Join(f.root, "src", "scss"),
			}, roots)
			assert.Equal(t, []string{
				filepath.Join(f.root, "dist", "css"),
				filepath.Join(f.root, "dist", "js"),
			}, ignore)
			return nil
		})
	f.watcher.EXPECT().Events().Return(feed.events())
	f.watcher.EXPECT().Stop().DoAndReturn(feed.stop).AnyTimes()

	rebuilt := make(chan map[string]string, 1)
	var runs int
	f.bundler.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, bc *domain.BundlerConfig) (*domain.BuildStats, error) {
			runs++
			if runs == 2 {
				rebuilt <- bc.Entry
			}
			return &domain.BuildStats{}, nil
		}).Times(2)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- f.app(false).WithDebounce(10*time.Millisecond).Watch(ctx, app.RunOptions{})
	}()

	// A new entry appears after the first build; the rebuild must pick it up.
	writeFile(t, f.root, "src/js/admin.js", "console.log('admin')")
	require.Eventually(t, func() bool {
		select {
		case feed.ch <- ports.WatchEvent{Path: filepath.Join(f.root, "src", "js", "admin.js"), Operation: ports.OpCreate}:
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	select {
	case entries := <-rebuilt:
		assert.Equal(t, map[string]string{
			"admin": "./src/js/admin.js",
			"app":   "./src/js/app.js",
		}, entries)
	case <-time.After(10 * time.Second):
		t.Fatal("scripts were not rebuilt")
	}

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestApp_Watch_IgnoresUnrelatedFiles(t *testing.T) {
	f := newFixture(t)
	feed := &eventFeed{ch: make(chan ports.WatchEvent, 8)}

	f.watcher.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.watcher.EXPECT().Events().Return(feed.events())
	f.watcher.EXPECT().Stop().DoAndReturn(feed.stop).AnyTimes()

	// Only the initial development build bundles.
	f.bundler.EXPECT().Run(gomock.Any(), gomock.Any()).Return(&domain.BuildStats{}, nil).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- f.app(false).WithDebounce(10*time.Millisecond).Watch(ctx, app.RunOptions{})
	}()

	writeFile(t, f.root, "src/img/logo.png", "png")
	feed.ch <- ports.WatchEvent{Path: filepath.Join(f.root, "src", "img", "logo.png"), Operation: ports.OpWrite}

	time.Sleep(100 * time.Millisecond)
	cancel()
	require.NoError(t, <-errCh)
}
