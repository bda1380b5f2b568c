// Package styles builds the style tasks: Sass compilation followed by the
// post-processing chain, in a development and a production flavor.
package styles

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// TransformSet holds the post-processing plugins. Minify only runs in production.
type TransformSet struct {
	Autoprefix ports.CSSTransform
	Rucksack   ports.CSSTransform
	Minify     ports.CSSTransform
}

// Deps are the collaborators of the style tasks.
type Deps struct {
	Compiler   ports.StyleCompiler
	Transforms TransformSet
	// Reload receives the written CSS paths of development builds. It may be nil.
	Reload ports.ReloadNotifier
	Logger ports.Logger
	// FS is rooted at the project root and used to find and read sources.
	// Nil means the OS filesystem at cfg.Root.
	FS fs.FS
}

// Tasks are the two style pipelines. Each call starts a new run.
type Tasks struct {
	Dev  func(ctx context.Context) *Stream
	Prod func(ctx context.Context) *Stream
}

// Build returns the style tasks for cfg. Nothing runs until a task is called.
func Build(cfg *domain.ProjectConfig, deps Deps) Tasks {
	p := &pipeline{cfg: cfg, deps: deps, fsys: deps.FS}
	if p.fsys == nil {
		p.fsys = os.DirFS(rootDir(cfg))
	}

	return Tasks{
		Dev:  func(ctx context.Context) *Stream { return p.start(ctx, p.devStages()) },
		Prod: func(ctx context.Context) *Stream { return p.start(ctx, p.prodStages()) },
	}
}

type pipeline struct {
	cfg  *domain.ProjectConfig
	deps Deps
	fsys fs.FS
}

func (p *pipeline) start(ctx context.Context, stages []stage) *Stream {
	s := newStream()
	go func() {
		s.finish(p.run(ctx, s, stages))
	}()
	return s
}

func (p *pipeline) run(ctx context.Context, s *Stream, stages []stage) error {
	opts := domain.SassOptions{Concurrency: runtime.NumCPU()}
	if err := domain.DecodeOptions(p.cfg.Options.Scss, &opts); err != nil {
		return zerr.With(err, "options", "scss")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}

	assets, err := p.sources()
	if err != nil {
		return err
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, asset := range assets {
		g.Go(func() error {
			return p.process(groupCtx, s, asset, stages, opts)
		})
	}

	return g.Wait()
}

// sources expands the style glob. Partials are left to the files importing them.
func (p *pipeline) sources() ([]*domain.Asset, error) {
	pattern := filepath.ToSlash(p.cfg.Paths.Styles.Src)
	base, _ := doublestar.SplitPattern(pattern)

	matches, err := doublestar.Glob(p.fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, zerr.With(domain.Wrap(err, domain.ErrStyleSourceFailed), "pattern", pattern)
	}
	slices.Sort(matches)

	assets := make([]*domain.Asset, 0, len(matches))
	for _, m := range matches {
		a := &domain.Asset{Root: rootDir(p.cfg), Path: m, Base: base}
		if a.IsPartial() {
			continue
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// process runs the stages of one file in order. Only fatal stage errors are
// returned; the others are logged and end this file's run.
func (p *pipeline) process(
	ctx context.Context,
	s *Stream,
	asset *domain.Asset,
	stages []stage,
	opts domain.SassOptions,
) error {
	contents, err := fs.ReadFile(p.fsys, asset.Path)
	if err != nil {
		return zerr.With(domain.Wrap(err, domain.ErrStyleReadFailed), "file", asset.Path)
	}
	asset.Contents = contents

	r := &fileRun{asset: asset, opts: opts, stream: s}
	for _, st := range stages {
		if err := st.run(ctx, r); err != nil {
			err = zerr.With(zerr.With(err, "file", asset.Path), "stage", st.name)
			if st.fatal {
				return err
			}
			p.deps.Logger.Error(err)
			return nil
		}
	}
	return nil
}

// distPath returns the project-relative output path of name.
func (p *pipeline) distPath(name string) string {
	return path.Join(filepath.ToSlash(p.cfg.Paths.Styles.Dist), name)
}

func rootDir(cfg *domain.ProjectConfig) string {
	if cfg.Root == "" {
		return "."
	}
	return cfg.Root
}
