package esbuild

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/gild/internal/core/domain"
)

const shimFile = "provide-shim.js"

// provideShim renders an inject file exporting each provided module under the
// requested names. Dotted names such as window.jQuery cannot be exported, so
// they get a generated name and a define pointing at it.
func provideShim(provides map[string]any) (string, map[string]string, error) {
	byModule := make(map[string][]string)
	for name, mod := range provides {
		s, ok := mod.(string)
		if !ok || s == "" {
			return "", nil, domain.Mark(domain.ErrBundlerSetupFailed, "details",
				fmt.Sprintf("provide %q must name a module", name))
		}
		byModule[s] = append(byModule[s], name)
	}

	modules := make([]string, 0, len(byModule))
	for m := range byModule {
		modules = append(modules, m)
	}
	slices.Sort(modules)

	var b strings.Builder
	defines := make(map[string]string)
	generated := 0

	for i, mod := range modules {
		local := fmt.Sprintf("__gild_provide_%d", i)
		fmt.Fprintf(&b, "import %s from %q;\n", local, mod)

		names := byModule[mod]
		slices.Sort(names)

		var exports []string
		for _, name := range names {
			if strings.Contains(name, ".") {
				alias := fmt.Sprintf("__gild_global_%d", generated)
				generated++
				exports = append(exports, local+" as "+alias)
				defines[name] = alias
				continue
			}
			exports = append(exports, local+" as "+name)
		}
		fmt.Fprintf(&b, "export { %s };\n", strings.Join(exports, ", "))
	}

	return b.String(), defines, nil
}

// applyProvide writes the shim into a fresh temporary directory and wires it
// into opts. The returned cleanup removes the directory.
func applyProvide(opts *api.BuildOptions, bc *domain.BundlerConfig) (func(), error) {
	noop := func() {}

	var provides map[string]any
	for _, p := range bc.Plugins {
		if p.Name != domain.PluginProvide {
			continue
		}
		if provides == nil {
			provides = make(map[string]any)
		}
		for k, v := range p.Options {
			provides[k] = v
		}
	}
	if len(provides) == 0 {
		return noop, nil
	}

	shim, defines, err := provideShim(provides)
	if err != nil {
		return noop, err
	}

	dir, err := os.MkdirTemp("", "gild-provide-*")
	if err != nil {
		return noop, domain.Wrap(err, domain.ErrBundlerSetupFailed)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	path := filepath.Join(dir, shimFile)
	if err := os.WriteFile(path, []byte(shim), domain.FilePerm); err != nil {
		cleanup()
		return noop, domain.Wrap(err, domain.ErrBundlerSetupFailed)
	}

	opts.Inject = append(opts.Inject, path)
	for k, v := range defines {
		opts.Define[k] = v
	}
	return cleanup, nil
}
