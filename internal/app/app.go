// Package app implements the application layer for gild.
package app

import (
	"context"
	"errors"
	"os"
	"runtime"
	"time"

	"go.trai.ch/gild/internal/adapters/notify"
	"go.trai.ch/gild/internal/adapters/reload"
	"go.trai.ch/gild/internal/adapters/watcher"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
	"go.trai.ch/gild/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// StyleCompiler is a compiler backed by a long-lived process.
type StyleCompiler interface {
	ports.StyleCompiler
	Close() error
}

// TransformFactory builds the post-processing transforms from the option bags.
type TransformFactory interface {
	Transforms(opts domain.Options) (autoprefix, rucksack, minify ports.CSSTransform, err error)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	compiler     StyleCompiler
	transforms   TransformFactory
	bundler      ports.Bundler
	notifier     ports.Notifier
	hub          *reload.Hub
	watcher      ports.Watcher

	workDir  string
	desktop  func() bool
	debounce time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	compiler StyleCompiler,
	transforms TransformFactory,
	bundler ports.Bundler,
	notifier ports.Notifier,
	hub *reload.Hub,
	w ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		compiler:     compiler,
		transforms:   transforms,
		bundler:      bundler,
		notifier:     notifier,
		hub:          hub,
		watcher:      w,
		workDir:      ".",
		desktop:      notify.DetectDesktop,
		debounce:     watcher.DefaultDebounceWindow,
	}
}

// WithWorkDir sets the directory gild.yaml is searched from.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// WithDesktop overrides the interactive-session detection used for notifications.
func (a *App) WithDesktop(desktop bool) *App {
	a.desktop = func() bool { return desktop }
	return a
}

// RunOptions are the command line switches layered over gild.yaml.
// A set switch turns the matching flag on; an unset one keeps the file's value.
type RunOptions struct {
	Production  bool
	Analyze     bool
	Debug       bool
	NoNotify    bool
	Parallelism int
}

// Run executes the given tasks and their dependencies. No task means default.
func (a *App) Run(ctx context.Context, targets []string, opts RunOptions) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		targets = []string{domain.TaskDefault}
	}

	reg, err := a.newRegistry(cfg, nil)
	if err != nil {
		return err
	}

	if err := a.schedule(ctx, reg, targets, opts); err != nil {
		return domain.Wrap(err, domain.ErrBuildExecutionFailed)
	}
	return nil
}

// Tasks lists the registered tasks in name order.
func (a *App) Tasks() []domain.Task {
	g := TaskGraph()
	tasks := make([]domain.Task, 0, g.TaskCount())
	for _, name := range g.Names() {
		t, _ := g.GetTask(name)
		tasks = append(tasks, t)
	}
	return tasks
}

// Clean removes the style and script output directories.
func (a *App) Clean() error {
	cfg, err := a.loadConfig(RunOptions{})
	if err != nil {
		return err
	}

	for _, dir := range []string{cfg.Paths.Styles.Dist, cfg.Paths.Dist.JS} {
		abs := cfg.Abs(dir)
		if err := os.RemoveAll(abs); err != nil {
			return zerr.With(domain.Wrap(err, domain.ErrCleanFailed), "path", abs)
		}
		a.logger.Info("removed " + dir)
	}
	return nil
}

// Close stops the style compiler process and the file watcher.
func (a *App) Close() error {
	var errs []error
	if a.compiler != nil {
		errs = append(errs, a.compiler.Close())
	}
	if a.watcher != nil {
		errs = append(errs, a.watcher.Stop())
	}
	return errors.Join(errs...)
}

func (a *App) loadConfig(opts RunOptions) (*domain.ProjectConfig, error) {
	cfg, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	cfg.Flags.Production = cfg.Flags.Production || opts.Production
	cfg.Flags.Analyze = cfg.Flags.Analyze || opts.Analyze
	cfg.Flags.Debug = cfg.Flags.Debug || opts.Debug
	if opts.NoNotify {
		cfg.Notify.Enabled = false
	}
	return cfg, nil
}

func (a *App) schedule(ctx context.Context, reg *Registry, targets []string, opts RunOptions) error {
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	return scheduler.NewScheduler(reg, a.logger).Run(ctx, reg.Graph(), targets, parallelism)
}

func (a *App) newReporter(cfg *domain.ProjectConfig) ports.Reporter {
	return notify.NewReporter(a.logger, a.notifier, cfg.Notify.Enabled && a.desktop())
}
