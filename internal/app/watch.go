package app

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/gild/internal/adapters/reload"
	"go.trai.ch/gild/internal/adapters/watcher"
	"go.trai.ch/gild/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

var (
	styleExts  = []string{".scss", ".sass", ".css"}
	scriptExts = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx"}
)

// Watch runs the development build, then serves live reload and rebuilds on
// source changes until ctx is cancelled.
func (a *App) Watch(ctx context.Context, opts RunOptions) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	abort := func(err error) error {
		cancel()
		_ = g.Wait()
		return err
	}

	server := reload.NewServer(a.hub, cfg.Server, cfg.Abs(cfg.Server.Root), a.logger)
	g.Go(func() error {
		return server.Serve(gctx)
	})

	reg, err := a.newRegistry(cfg, a.hub)
	if err != nil {
		return abort(err)
	}
	if err := a.schedule(gctx, reg, []string{domain.TaskDefault}, opts); err != nil {
		// A broken first build is reported; watching continues so a fix can land.
		a.logger.Error(err)
	}

	if err := a.watcher.Start(gctx, watchRoots(cfg), outputDirs(cfg)); err != nil {
		_ = a.watcher.Stop()
		return abort(err)
	}

	w := &watchLoop{app: a, cfg: cfg, opts: opts, ctx: gctx}
	debouncer := watcher.NewDebouncer(a.debounce, w.rebuild)
	filter := watcher.NewChangeFilter()

	g.Go(func() error {
		for ev := range a.watcher.Events() {
			if classify(ev.Path) == changeNone || !filter.Changed(ev.Path) {
				continue
			}
			debouncer.Add(ev.Path)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		debouncer.Stop()
		return a.watcher.Stop()
	})

	a.logger.Info("watching for changes")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

type change uint8

const (
	changeNone change = iota
	changeStyle
	changeScript
)

func classify(path string) change {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case slices.Contains(styleExts, ext):
		return changeStyle
	case slices.Contains(scriptExts, ext):
		return changeScript
	default:
		return changeNone
	}
}

// watchLoop rebuilds one debounced batch at a time.
type watchLoop struct {
	app  *App
	cfg  *domain.ProjectConfig
	opts RunOptions
	ctx  context.Context
	mu   sync.Mutex
}

func (w *watchLoop) rebuild(paths []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ctx.Err() != nil {
		return
	}

	var targets []string
	scriptsChanged := false
	for _, p := range paths {
		switch classify(p) {
		case changeStyle:
			if !slices.Contains(targets, domain.TaskStylesDev) {
				targets = append(targets, domain.TaskStylesDev)
			}
		case changeScript:
			scriptsChanged = true
		case changeNone:
		}
	}
	if scriptsChanged {
		targets = append(targets, domain.TaskScripts)
	}
	if len(targets) == 0 {
		return
	}

	// Entries are rediscovered so new script files become bundles.
	reg, err := w.app.newRegistry(w.cfg, w.app.hub)
	if err != nil {
		w.app.logger.Error(err)
		return
	}
	if err := w.app.schedule(w.ctx, reg, targets, w.opts); err != nil {
		w.app.logger.Error(domain.Wrap(err, domain.ErrBuildExecutionFailed))
		return
	}
	if scriptsChanged {
		w.app.hub.Reload()
	}
}

// watchRoots are the source directories: the script source dir and the
// static part of the style glob.
func watchRoots(cfg *domain.ProjectConfig) []string {
	styleBase, _ := doublestar.SplitPattern(filepath.ToSlash(cfg.Paths.Styles.Src))
	roots := []string{cfg.Abs(cfg.Src.Dir)}
	if abs := cfg.Abs(filepath.FromSlash(styleBase)); !slices.Contains(roots, abs) {
		roots = append(roots, abs)
	}
	return roots
}

func outputDirs(cfg *domain.ProjectConfig) []string {
	return []string{cfg.Abs(cfg.Paths.Styles.Dist), cfg.Abs(cfg.Paths.Dist.JS)}
}
