package styles

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
	"go.trai.ch/zerr"
)

// stage is one step of a file's pipeline. A fatal stage fails the whole
// stream; any other failure drops just the file.
type stage struct {
	name  string
	fatal bool
	run   func(ctx context.Context, r *fileRun) error
}

// fileRun carries one file through the stages.
type fileRun struct {
	asset  *domain.Asset
	opts   domain.SassOptions
	stream *Stream
	// css is the project-relative path the stylesheet was written to.
	css string
}

func (p *pipeline) devStages() []stage {
	return []stage{
		{name: "sourcemaps:init", run: initSourceMaps},
		{name: "compile", run: p.compile},
		p.transform(p.deps.Transforms.Autoprefix),
		p.transform(p.deps.Transforms.Rucksack),
		{name: "sourcemaps:write", fatal: true, run: p.writeSourceMap},
		{name: "write", fatal: true, run: p.writeCSS},
		{name: "reload", run: p.reload},
	}
}

func (p *pipeline) prodStages() []stage {
	return []stage{
		{name: "compile", run: p.compile},
		p.transform(p.deps.Transforms.Autoprefix),
		p.transform(p.deps.Transforms.Rucksack),
		p.transform(p.deps.Transforms.Minify),
		{name: "write", fatal: true, run: p.writeCSS},
	}
}

func initSourceMaps(_ context.Context, r *fileRun) error {
	r.asset.TrackMap = true
	return nil
}

func (p *pipeline) compile(ctx context.Context, r *fileRun) error {
	return p.deps.Compiler.Compile(ctx, r.asset, r.opts)
}

func (p *pipeline) transform(t ports.CSSTransform) stage {
	if t == nil {
		return stage{name: "noop", run: func(context.Context, *fileRun) error { return nil }}
	}
	return stage{
		name: t.Name(),
		run: func(ctx context.Context, r *fileRun) error {
			if err := t.Transform(ctx, r.asset); err != nil {
				return zerr.With(domain.Wrap(err, domain.ErrStyleTransformFailed), "transform", t.Name())
			}
			return nil
		},
	}
}

// writeSourceMap writes <out>.map next to the stylesheet and points the
// stylesheet at it.
func (p *pipeline) writeSourceMap(_ context.Context, r *fileRun) error {
	if !r.asset.TrackMap || len(r.asset.SourceMap) == 0 {
		return nil
	}

	mapName := r.asset.OutName() + domain.SourceMapExt
	if err := p.write(mapName, r.asset.SourceMap); err != nil {
		return err
	}
	r.stream.record(p.distPath(mapName))

	comment := "\n/*# sourceMappingURL=" + path.Base(mapName) + " */\n"
	r.asset.Contents = append(trimTrailingNewline(r.asset.Contents), comment...)
	return nil
}

func (p *pipeline) writeCSS(_ context.Context, r *fileRun) error {
	name := r.asset.OutName()
	if err := p.write(name, r.asset.Contents); err != nil {
		return err
	}
	r.css = p.distPath(name)
	r.stream.record(r.css)
	return nil
}

func (p *pipeline) reload(_ context.Context, r *fileRun) error {
	if p.deps.Reload != nil && r.css != "" {
		p.deps.Reload.Reload(r.css)
	}
	return nil
}

func (p *pipeline) write(name string, data []byte) error {
	target := filepath.Join(p.cfg.Abs(p.cfg.Paths.Styles.Dist), filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(domain.Wrap(err, domain.ErrStyleWriteFailed), "path", target)
	}
	if err := os.WriteFile(target, data, domain.FilePerm); err != nil {
		return zerr.With(domain.Wrap(err, domain.ErrStyleWriteFailed), "path", target)
	}
	return nil
}

func trimTrailingNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
