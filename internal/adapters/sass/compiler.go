// Package sass implements the style compiler with the embedded Dart Sass protocol.
package sass

import (
	"context"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bep/godartsass/v2"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
)

var _ ports.StyleCompiler = (*Compiler)(nil)

// Compiler compiles Sass through one long-lived Dart Sass process.
// The process is started on first use and shared by concurrent compiles.
type Compiler struct {
	// BinaryPath overrides the dart-sass executable. Empty means "sass" on PATH.
	BinaryPath string
	logger     ports.Logger

	mu         sync.Mutex
	transpiler *godartsass.Transpiler
}

// NewCompiler creates a Compiler reporting Sass warnings to logger.
func NewCompiler(logger ports.Logger) *Compiler {
	return &Compiler{logger: logger}
}

// Compile replaces asset.Contents with the compiled CSS.
func (c *Compiler) Compile(ctx context.Context, asset *domain.Asset, opts domain.SassOptions) error {
	t, err := c.start()
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := t.Execute(buildArgs(asset, opts))
	if err != nil {
		return domain.Wrap(err, domain.ErrStyleCompileFailed)
	}

	asset.Contents = []byte(res.CSS)
	if asset.TrackMap {
		asset.SourceMap = []byte(res.SourceMap)
	}
	return nil
}

// Close stops the Dart Sass process if it was started.
func (c *Compiler) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transpiler == nil {
		return nil
	}
	err := c.transpiler.Close()
	c.transpiler = nil
	return err
}

func (c *Compiler) start() (*godartsass.Transpiler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transpiler != nil && !c.transpiler.IsShutDown() {
		return c.transpiler, nil
	}

	t, err := godartsass.Start(godartsass.Options{
		DartSassEmbeddedFilename: c.BinaryPath,
		LogEventHandler:          c.logEvent,
	})
	if err != nil {
		return nil, domain.Wrap(err, domain.ErrCompilerStartFailed)
	}
	c.transpiler = t
	return t, nil
}

func (c *Compiler) logEvent(e godartsass.LogEvent) {
	if c.logger == nil {
		return
	}
	switch e.Type {
	case godartsass.LogEventTypeDebug:
		c.logger.Info(e.Message)
	default:
		c.logger.Warn(e.Message)
	}
}

// buildArgs maps an asset and the decoded scss options to a transpiler request.
func buildArgs(asset *domain.Asset, opts domain.SassOptions) godartsass.Args {
	abs := asset.Abs()

	includePaths := make([]string, 0, len(opts.IncludePaths)+1)
	includePaths = append(includePaths, filepath.Dir(abs))
	for _, p := range opts.IncludePaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(asset.Root, p)
		}
		includePaths = append(includePaths, p)
	}

	args := godartsass.Args{
		Source:                  string(asset.Contents),
		URL:                     fileURL(abs),
		IncludePaths:            includePaths,
		SourceSyntax:            sourceSyntax(asset.Path),
		OutputStyle:             godartsass.ParseOutputStyle(opts.OutputStyle),
		EnableSourceMap:         asset.TrackMap,
		SourceMapIncludeSources: asset.TrackMap,
		SilenceDeprecations:     opts.SilenceDeprecations,
	}
	return args
}

func sourceSyntax(p string) godartsass.SourceSyntax {
	switch strings.ToLower(path.Ext(p)) {
	case ".sass":
		return godartsass.SourceSyntaxSASS
	case ".css":
		return godartsass.SourceSyntaxCSS
	default:
		return godartsass.SourceSyntaxSCSS
	}
}

func fileURL(abs string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String()
}
