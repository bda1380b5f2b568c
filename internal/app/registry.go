package app

import (
	"context"

	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
	"go.trai.ch/gild/internal/engine/scripts"
	"go.trai.ch/gild/internal/engine/styles"
)

var _ ports.Executor = (*Registry)(nil)

// TaskGraph returns the registered tasks. The graph does not depend on the
// project configuration, so it can be listed before gild.yaml is loaded.
func TaskGraph() *domain.Graph {
	g := domain.NewGraph()
	for _, t := range []domain.Task{
		{Name: domain.TaskStylesDev, Description: "compile styles with source maps and live reload"},
		{Name: domain.TaskStylesProd, Description: "compile and minify styles"},
		{Name: domain.TaskScripts, Description: "bundle scripts"},
		{
			Name:         domain.TaskBuild,
			Description:  "production build",
			Dependencies: []string{domain.TaskStylesProd, domain.TaskScripts},
		},
		{
			Name:         domain.TaskDefault,
			Description:  "development build",
			Dependencies: []string{domain.TaskStylesDev, domain.TaskScripts},
		},
	} {
		// Names are unique, AddTask cannot fail here.
		_ = g.AddTask(&t)
	}
	return g
}

// Registry binds task names to the actions built for one configuration.
// Aggregate tasks have no action of their own.
type Registry struct {
	graph   *domain.Graph
	actions map[string]func(ctx context.Context) error
}

// Graph returns the task graph the registry executes.
func (r *Registry) Graph() *domain.Graph {
	return r.graph
}

// Execute runs the action of task and blocks until it has completed.
func (r *Registry) Execute(ctx context.Context, task *domain.Task) error {
	action, ok := r.actions[task.Name]
	if !ok {
		return nil
	}
	return action(ctx)
}

// newRegistry builds every task for cfg. reload may be nil outside watch mode.
func (a *App) newRegistry(cfg *domain.ProjectConfig, reload ports.ReloadNotifier) (*Registry, error) {
	autoprefix, rucksack, minify, err := a.transforms.Transforms(cfg.Options)
	if err != nil {
		return nil, err
	}

	styleTasks := styles.Build(cfg, styles.Deps{
		Compiler: a.compiler,
		Transforms: styles.TransformSet{
			Autoprefix: autoprefix,
			Rucksack:   rucksack,
			Minify:     minify,
		},
		Reload: reload,
		Logger: a.logger,
	})

	reporter := a.newReporter(cfg)
	scriptTask, err := scripts.Build(cfg, scripts.Deps{
		Bundler:  a.bundler,
		Reporter: reporter,
		Logger:   a.logger,
	})
	if err != nil {
		return nil, err
	}

	return &Registry{
		graph: TaskGraph(),
		actions: map[string]func(ctx context.Context) error{
			domain.TaskStylesDev:  func(ctx context.Context) error { return styleTasks.Dev(ctx).Wait() },
			domain.TaskStylesProd: func(ctx context.Context) error { return styleTasks.Prod(ctx).Wait() },
			domain.TaskScripts:    func(ctx context.Context) error { return runScripts(ctx, scriptTask) },
		},
	}, nil
}

// runScripts waits for the task to signal completion. Build problems were
// already reported by the task itself.
func runScripts(ctx context.Context, task scripts.Task) error {
	done := make(chan struct{})
	go task(ctx, func() { close(done) })
	<-done
	return nil
}
