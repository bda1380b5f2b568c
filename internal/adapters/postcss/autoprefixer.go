// Package postcss implements the CSS post-processing transforms: vendor
// prefixing, rucksack-style rewrites and minification.
package postcss

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CSSTransform = (*Autoprefixer)(nil)

// defaultTargets stands in for the browserslist "defaults" query.
var defaultTargets = []api.Engine{
	{Name: api.EngineChrome, Version: "87"},
	{Name: api.EngineEdge, Version: "88"},
	{Name: api.EngineFirefox, Version: "78"},
	{Name: api.EngineSafari, Version: "14"},
	{Name: api.EngineIOS, Version: "14"},
}

var engineNames = map[string]api.EngineName{
	"chrome":        api.EngineChrome,
	"and_chr":       api.EngineChrome,
	"chromeandroid": api.EngineChrome,
	"edge":          api.EngineEdge,
	"firefox":       api.EngineFirefox,
	"ff":            api.EngineFirefox,
	"and_ff":        api.EngineFirefox,
	"safari":        api.EngineSafari,
	"ios":           api.EngineIOS,
	"ios_saf":       api.EngineIOS,
	"opera":         api.EngineOpera,
	"ie":            api.EngineIE,
	"explorer":      api.EngineIE,
}

// Autoprefixer adds vendor prefixes and lowers syntax for the configured browsers.
type Autoprefixer struct {
	engines []api.Engine
}

// NewAutoprefixer decodes the autoprefixer options bag.
func NewAutoprefixer(bag map[string]any) (*Autoprefixer, error) {
	var opts domain.AutoprefixerOptions
	if err := domain.DecodeOptions(bag, &opts); err != nil {
		return nil, zerr.With(err, "options", "autoprefixer")
	}

	engines, err := ParseTargets(opts.Targets())
	if err != nil {
		return nil, err
	}
	return &Autoprefixer{engines: engines}, nil
}

// Name identifies the transform.
func (a *Autoprefixer) Name() string { return "autoprefixer" }

// Transform rewrites asset.Contents for the target engines. An incoming source
// map is fed to the transform inline and replaced by the composed map.
func (a *Autoprefixer) Transform(_ context.Context, asset *domain.Asset) error {
	input := string(asset.Contents)
	sourcemap := api.SourceMapNone
	if asset.TrackMap && len(asset.SourceMap) > 0 {
		input = strings.TrimRight(input, "\n") + "\n/*# sourceMappingURL=data:application/json;base64," +
			base64.StdEncoding.EncodeToString(asset.SourceMap) + " */\n"
		sourcemap = api.SourceMapExternal
	}

	res := api.Transform(input, api.TransformOptions{
		Loader:     api.LoaderCSS,
		Engines:    a.engines,
		Sourcemap:  sourcemap,
		Sourcefile: asset.Path,
		LogLevel:   api.LogLevelSilent,
	})
	if len(res.Errors) > 0 {
		msgs := api.FormatMessages(res.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
		return errors.New(strings.TrimSpace(strings.Join(msgs, "\n")))
	}

	asset.Contents = res.Code
	if sourcemap == api.SourceMapExternal {
		asset.SourceMap = res.Map
	}
	return nil
}

// ParseTargets maps browserslist entries like "chrome 80" or "safari >= 13.1"
// to engines. Usage-based queries ("> 1%", "last 2 versions", "defaults",
// "not dead") cannot be resolved offline and are skipped; when nothing is
// left, a default set is used.
func ParseTargets(entries []string) ([]api.Engine, error) {
	var engines []api.Engine

	for _, entry := range entries {
		for _, query := range strings.Split(entry, ",") {
			fields := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
			if len(fields) == 0 || !isVersionQuery(fields) {
				continue
			}

			name, ok := engineNames[fields[0]]
			if !ok {
				return nil, domain.Mark(domain.ErrUnknownEngine, "browser", fields[0])
			}
			version := fields[len(fields)-1]
			if i := strings.IndexByte(version, '-'); i > 0 {
				version = version[:i]
			}
			engines = append(engines, api.Engine{Name: name, Version: version})
		}
	}

	if len(engines) == 0 {
		return defaultTargets, nil
	}
	return engines, nil
}

// isVersionQuery reports whether fields read "<browser> [>=] <version>".
func isVersionQuery(fields []string) bool {
	switch len(fields) {
	case 2:
	case 3:
		if fields[1] != ">=" && fields[1] != ">" {
			return false
		}
	default:
		return false
	}
	if fields[0] == "last" || fields[0] == "not" || fields[0] == ">" || fields[0] == ">=" {
		return false
	}
	v := fields[len(fields)-1]
	return v != "" && (v[0] >= '0' && v[0] <= '9')
}
