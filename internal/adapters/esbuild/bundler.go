// Package esbuild implements the script bundler on top of esbuild.
package esbuild

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Bundler = (*Bundler)(nil)

// knownPlugins are the plugin names the translation understands.
var knownPlugins = map[string]bool{
	domain.PluginProvide:        true,
	domain.PluginBundleAnalyzer: true,
}

// Bundler runs esbuild builds.
type Bundler struct {
	logger ports.Logger
}

// NewBundler creates a Bundler. Unsupported configuration is reported to logger.
func NewBundler(logger ports.Logger) *Bundler {
	return &Bundler{logger: logger}
}

// Run translates bc and runs one build. Translation and context failures are
// returned as errors; compile errors and warnings land in the stats.
func (b *Bundler) Run(ctx context.Context, bc *domain.BundlerConfig) (*domain.BuildStats, error) {
	start := time.Now()

	opts, err := translate(bc)
	if err != nil {
		return nil, err
	}
	b.warnUnsupported(bc)

	cleanup, err := applyProvide(&opts, bc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	bctx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return nil, setupError(ctxErr)
	}
	defer bctx.Dispose()

	stop := context.AfterFunc(ctx, bctx.Cancel)
	defer stop()

	result := bctx.Rebuild()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := &domain.BuildStats{
		Errors:   formatMessages(result.Errors, api.ErrorMessage),
		Warnings: formatMessages(result.Warnings, api.WarningMessage),
	}

	meta, err := parseMetafile(result.Metafile)
	if err != nil {
		stats.Warnings = append(stats.Warnings, "failed to read build metafile: "+err.Error())
	} else {
		stats.Assets, stats.Entrypoints = collectAssets(meta, bc, opts.AbsWorkingDir, opts.Outdir)
	}

	if bc.HasPlugin(domain.PluginBundleAnalyzer) && result.Metafile != "" {
		if err := writeAnalysis(opts.Outdir, result.Metafile); err != nil {
			stats.Warnings = append(stats.Warnings, err.Error())
		}
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

func (b *Bundler) warnUnsupported(bc *domain.BundlerConfig) {
	if b.logger == nil {
		return
	}
	for _, p := range bc.Plugins {
		if !knownPlugins[p.Name] {
			b.logger.Warn(fmt.Sprintf("bundler plugin %q is not supported and is ignored", p.Name))
		}
	}
}

func setupError(err error) error {
	var cerr *api.ContextError
	if errors.As(err, &cerr) {
		details := strings.Join(formatMessages(cerr.Errors, api.ErrorMessage), "\n")
		return zerr.With(domain.Wrap(err, domain.ErrBundlerSetupFailed), "details", details)
	}
	return domain.Wrap(err, domain.ErrBundlerSetupFailed)
}

func formatMessages(msgs []api.Message, kind api.MessageKind) []string {
	if len(msgs) == 0 {
		return nil
	}
	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: kind})
	out := make([]string, 0, len(formatted))
	for _, f := range formatted {
		out = append(out, strings.TrimSpace(f))
	}
	return out
}
