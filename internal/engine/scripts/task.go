package scripts

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"

	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
)

// Task runs one bundler invocation and calls done exactly once when it is over,
// whatever the outcome. Build problems are reported, never returned.
type Task func(ctx context.Context, done func())

// Deps are the collaborators of the script task.
type Deps struct {
	Bundler  ports.Bundler
	Reporter ports.Reporter
	Logger   ports.Logger
	// FS is rooted at the project root. Nil means the OS filesystem at cfg.Root.
	FS fs.FS
}

// Build synthesizes the bundler configuration for cfg and returns the task running it.
// Entry discovery and override merging happen here, once, not on every run.
func Build(cfg *domain.ProjectConfig, deps Deps) (Task, error) {
	fsys := deps.FS
	if fsys == nil {
		root := cfg.Root
		if root == "" {
			root = "."
		}
		fsys = os.DirFS(root)
	}

	bc, err := BuildBundlerConfig(cfg, fsys)
	if err != nil {
		return nil, err
	}
	for _, key := range domain.IgnoredBundlerKeys(cfg.Options.Webpack) {
		deps.Logger.Warn("options.webpack." + key + " is not supported and was ignored")
	}

	return func(ctx context.Context, done func()) {
		defer done()

		if cfg.Flags.Debug {
			logConfig(deps.Logger, bc)
		}

		stats, err := deps.Bundler.Run(ctx, bc)
		if err != nil {
			// Setup failures end the run here and still complete the task, so
			// the caller sees a normal completion. This keeps the historical
			// behavior; the logged error is the only trace of the failure.
			deps.Logger.Error(err)
			return
		}

		if cfg.Flags.Debug {
			deps.Logger.Info(stats.String())
		}

		report(deps.Reporter, stats.ToJSON())
	}, nil
}

func report(r ports.Reporter, summary domain.StatsJSON) {
	for _, msg := range summary.Errors {
		r.Log(domain.LevelError, msg)
		r.Notify(domain.Notification{
			Title:   domain.NotificationTitle,
			Message: msg,
			Sound:   domain.NotificationSound,
		})
	}

	for _, msg := range summary.Warnings {
		r.Log(domain.LevelWarn, msg)
	}
}

func logConfig(log ports.Logger, bc *domain.BundlerConfig) {
	raw, err := json.MarshalIndent(bc, "", "  ")
	if err != nil {
		log.Error(err)
		return
	}
	log.Info("Bundler config\n" + string(raw))
}
