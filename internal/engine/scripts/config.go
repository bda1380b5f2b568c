// Package scripts builds the script bundling task.
package scripts

import (
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	filenamePattern = "[name].[contenthash].js"
	entryPattern    = "*.js"

	scriptRuleTest    = `\.m?js$`
	scriptRuleExclude = `(node_modules|bower_components)`
	transpileLoader   = "babel-loader"
	transpilePreset   = "@babel/preset-env"

	splitAllChunks = "all"
	domLibrary     = "jquery"
)

// baseConfig returns the fixed starting configuration. Every call returns a fresh value.
func baseConfig(cfg *domain.ProjectConfig) *domain.BundlerConfig {
	return &domain.BundlerConfig{
		Context: cfg.Root,
		Entry:   map[string]string{},
		Output: domain.Output{
			Path:     cfg.Abs(cfg.Paths.Dist.JS),
			Filename: filenamePattern,
		},
		Module: domain.Module{
			Rules: []domain.Rule{{
				Test:    scriptRuleTest,
				Exclude: scriptRuleExclude,
				Use: domain.Use{
					Loader:  transpileLoader,
					Options: map[string]any{"presets": []any{transpilePreset}},
				},
			}},
		},
		Optimization: domain.Optimization{
			SplitChunks: domain.SplitChunks{Chunks: splitAllChunks},
		},
		Plugins: []domain.Plugin{{
			Name: domain.PluginProvide,
			Options: map[string]any{
				"$":             domLibrary,
				"jQuery":        domLibrary,
				"window.jQuery": domLibrary,
			},
		}},
	}
}

// BuildBundlerConfig synthesizes the bundler configuration for cfg.
// Entries are discovered in fsys, which must be rooted at the project root.
func BuildBundlerConfig(cfg *domain.ProjectConfig, fsys fs.FS) (*domain.BundlerConfig, error) {
	bc := baseConfig(cfg)

	if cfg.Flags.Analyze {
		bc.Plugins = append(bc.Plugins, domain.Plugin{Name: domain.PluginBundleAnalyzer})
	}

	if cfg.Flags.Production {
		bc.Mode = domain.ModeProduction
	} else {
		bc.Mode = domain.ModeDevelopment
		bc.Devtool = domain.DevtoolInlineSourceMap
	}

	srcDir, err := rootRelative(cfg.Root, cfg.Src.Dir)
	if err != nil {
		return nil, err
	}
	entries, err := DiscoverEntries(fsys, srcDir, cfg.Src.JS)
	if err != nil {
		return nil, err
	}
	for name, p := range entries {
		bc.Entry[name] = p
	}

	if err := domain.MergeBundlerConfig(bc, cfg.Options.Webpack); err != nil {
		return nil, err
	}

	return bc, nil
}

// rootRelative turns an absolute dir into a path relative to the project root,
// the only form an fs.FS accepts.
func rootRelative(root, dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		return dir, nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", zerr.With(domain.Wrap(err, domain.ErrEntryDiscoveryFailed), "dir", dir)
	}
	rel, err := filepath.Rel(absRoot, dir)
	if err != nil {
		return "", zerr.With(domain.Wrap(err, domain.ErrEntryDiscoveryFailed), "dir", dir)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(domain.Mark(domain.ErrEntryDiscoveryFailed, "dir", dir), "root", absRoot)
	}
	return rel, nil
}

// DiscoverEntries maps the base name of every *.js file directly inside
// srcDir/<glob parent of jsPattern> to its "./"-prefixed path. Nested
// directories are not scanned. Matches are visited in sorted order and a later
// match with the same base name replaces an earlier one.
func DiscoverEntries(fsys fs.FS, srcDir, jsPattern string) (map[string]string, error) {
	parent, _ := doublestar.SplitPattern(jsPattern)
	dir := path.Clean(path.Join(filepath.ToSlash(srcDir), parent))

	pattern := path.Join(dir, entryPattern)
	if dir == "." {
		pattern = entryPattern
	}

	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, zerr.With(domain.Wrap(err, domain.ErrEntryDiscoveryFailed), "pattern", pattern)
	}
	slices.Sort(matches)

	entries := make(map[string]string, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(path.Base(m), path.Ext(m))
		entries[name] = "./" + m
	}
	return entries, nil
}
