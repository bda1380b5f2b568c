package esbuild

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/zerr"
)

// loaders maps loader names to the esbuild loader doing the same job.
// The transpiling loaders become plain JS/TS: esbuild lowers syntax itself.
var loaders = map[string]api.Loader{
	"babel-loader":   api.LoaderJS,
	"buble-loader":   api.LoaderJS,
	"esbuild-loader": api.LoaderJS,
	"ts-loader":      api.LoaderTS,
	"jsx-loader":     api.LoaderJSX,
	"css-loader":     api.LoaderCSS,
	"style-loader":   api.LoaderCSS,
	"json-loader":    api.LoaderJSON,
	"raw-loader":     api.LoaderText,
	"file-loader":    api.LoaderFile,
	"url-loader":     api.LoaderDataURL,
	"asset/resource": api.LoaderFile,
	"asset/inline":   api.LoaderDataURL,
	"asset/source":   api.LoaderText,
}

// transpilers are the loaders whose job is syntax lowering. A rule using one
// without an explicit target lowers to transpileTarget.
var transpilers = map[string]bool{
	"babel-loader": true,
	"buble-loader": true,
}

// transpileTarget is the lowest level esbuild lowers modern syntax to
// without failing on let, const or classes.
const transpileTarget = api.ES2015

// candidateExts are probed against rule tests: esbuild routes loaders by
// extension, not by path pattern.
var candidateExts = []string{
	".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx",
	".css", ".json", ".txt", ".svg", ".png", ".jpg", ".jpeg", ".gif",
	".webp", ".woff", ".woff2", ".ttf", ".eot",
}

// devtools maps devtool values to source map modes.
var devtools = map[string]api.SourceMap{
	"":                        api.SourceMapNone,
	"inline-source-map":       api.SourceMapInline,
	"eval":                    api.SourceMapInline,
	"eval-source-map":         api.SourceMapInline,
	"eval-cheap-source-map":   api.SourceMapInline,
	"cheap-module-source-map": api.SourceMapLinked,
	"cheap-source-map":        api.SourceMapLinked,
	"source-map":              api.SourceMapLinked,
	"hidden-source-map":       api.SourceMapExternal,
	"nosources-source-map":    api.SourceMapLinked,
}

var esTargets = map[string]api.Target{
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

var engineNames = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"safari":  api.EngineSafari,
	"ios":     api.EngineIOS,
	"opera":   api.EngineOpera,
	"node":    api.EngineNode,
	"ie":      api.EngineIE,
}

var namePlaceholders = strings.NewReplacer(
	"[contenthash]", "[hash]",
	"[chunkhash]", "[hash]",
	"[fullhash]", "[hash]",
	"[id]", "[name]",
)

// translate maps a bundler configuration to esbuild build options.
// Every failure here is a setup failure: the build never starts.
func translate(bc *domain.BundlerConfig) (api.BuildOptions, error) {
	workDir, err := absWorkingDir(bc.Context)
	if err != nil {
		return api.BuildOptions{}, err
	}

	outdir := bc.Output.Path
	if !filepath.IsAbs(outdir) {
		outdir = filepath.Join(workDir, outdir)
	}

	opts := api.BuildOptions{
		AbsWorkingDir:       workDir,
		EntryPointsAdvanced: entryPoints(bc.Entry),
		Bundle:              true,
		Write:               true,
		Metafile:            true,
		Outdir:              outdir,
		EntryNames:          outputNames(bc.Output.Filename),
		ChunkNames:          outputNames(firstNonEmpty(bc.Output.ChunkFilename, bc.Output.Filename)),
		AssetNames:          "[name].[hash]",
		PublicPath:          bc.Output.PublicPath,
		Platform:            api.PlatformBrowser,
		Format:              api.FormatIIFE,
		External:            bc.Externals,
		Alias:               bc.Resolve.Alias,
		NodePaths:           []string{filepath.Join(workDir, "node_modules")},
		LogLevel:            api.LogLevelSilent,
		Define:              map[string]string{},
	}

	switch bc.Optimization.SplitChunks.Chunks {
	case "all", "async":
		// Code splitting is only available for ES module output.
		opts.Splitting = true
		opts.Format = api.FormatESModule
	}

	mode := bc.Mode
	if mode == "" {
		mode = domain.ModeProduction
	}
	opts.Define["process.env.NODE_ENV"] = `"` + mode + `"`
	if mode == domain.ModeProduction {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	}

	sourcemap, ok := devtools[bc.Devtool]
	if !ok {
		return api.BuildOptions{}, domain.Mark(domain.ErrBundlerSetupFailed, "details", "unsupported devtool "+bc.Devtool)
	}
	opts.Sourcemap = sourcemap

	if opts.Loader, err = ruleLoaders(bc.Module.Rules); err != nil {
		return api.BuildOptions{}, err
	}

	if err := applyTargets(&opts, bc.Target); err != nil {
		return api.BuildOptions{}, err
	}
	if len(bc.Target) == 0 && transpiles(bc.Module.Rules) {
		opts.Target = transpileTarget
	}

	for k, v := range bc.Define {
		opts.Define[k] = v
	}

	return opts, nil
}

func absWorkingDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", domain.Wrap(err, domain.ErrBundlerSetupFailed)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", domain.Wrap(err, domain.ErrBundlerSetupFailed)
	}
	return abs, nil
}

// entryPoints sorts entries by name so builds are reproducible.
func entryPoints(entry map[string]string) []api.EntryPoint {
	names := make([]string, 0, len(entry))
	for name := range entry {
		names = append(names, name)
	}
	slices.Sort(names)

	eps := make([]api.EntryPoint, 0, len(names))
	for _, name := range names {
		eps = append(eps, api.EntryPoint{InputPath: entry[name], OutputPath: name})
	}
	return eps
}

// outputNames turns "[name].[contenthash].js" into "[name].[hash]";
// esbuild appends the extension itself.
func outputNames(pattern string) string {
	if pattern == "" {
		return "[name]"
	}
	out := namePlaceholders.Replace(pattern)
	for _, ext := range []string{".js", ".mjs", ".cjs"} {
		out = strings.TrimSuffix(out, ext)
	}
	return out
}

func ruleLoaders(rules []domain.Rule) (map[string]api.Loader, error) {
	out := make(map[string]api.Loader)
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Test)
		if err != nil {
			return nil, zerr.With(domain.Wrap(err, domain.ErrInvalidRuleTest), "test", rule.Test)
		}

		loader, ok := loaders[rule.Use.Loader]
		if !ok {
			return nil, domain.Mark(domain.ErrUnknownLoader, "loader", rule.Use.Loader)
		}

		for _, ext := range candidateExts {
			if re.MatchString("file" + ext) {
				out[ext] = loader
			}
		}
	}
	return out, nil
}

func transpiles(rules []domain.Rule) bool {
	return slices.ContainsFunc(rules, func(r domain.Rule) bool { return transpilers[r.Use.Loader] })
}

// applyTargets accepts "esNNNN" language levels and esbuild style engine
// versions such as "chrome80" or "safari13.1".
func applyTargets(opts *api.BuildOptions, targets []string) error {
	for _, t := range targets {
		t = strings.ToLower(strings.TrimSpace(t))
		if target, ok := esTargets[t]; ok {
			opts.Target = target
			continue
		}

		i := strings.IndexFunc(t, func(r rune) bool { return r >= '0' && r <= '9' })
		if i <= 0 {
			return domain.Mark(domain.ErrUnknownEngine, "target", t)
		}
		name, ok := engineNames[t[:i]]
		if !ok {
			return domain.Mark(domain.ErrUnknownEngine, "target", t)
		}
		opts.Engines = append(opts.Engines, api.Engine{Name: name, Version: t[i:]})
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
