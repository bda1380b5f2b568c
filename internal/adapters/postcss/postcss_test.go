package postcss_test

import (
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gild/internal/adapters/postcss"
	"go.trai.ch/gild/internal/core/domain"
)

func TestParseTargets(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    []api.Engine
	}{
		{
			name:    "exact versions",
			entries: []string{"chrome 80", "Safari >= 13.1"},
			want: []api.Engine{
				{Name: api.EngineChrome, Version: "80"},
				{Name: api.EngineSafari, Version: "13.1"},
			},
		},
		{
			name:    "comma separated query",
			entries: []string{"ie 11, ios_saf 12.2-12.5"},
			want: []api.Engine{
				{Name: api.EngineIE, Version: "11"},
				{Name: api.EngineIOS, Version: "12.2"},
			},
		},
		{
			name:    "usage queries only fall back to defaults",
			entries: []string{"> 1%", "last 2 versions", "not dead"},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := postcss.ParseTargets(tt.entries)
			require.NoError(t, err)
			if tt.want == nil {
				assert.NotEmpty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTargets_UnknownBrowser(t *testing.T) {
	_, err := postcss.ParseTargets([]string{"netscape 4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrUnknownEngine.Error())
}

func TestAutoprefixer_PrefixesForOldTargets(t *testing.T) {
	ap, err := postcss.NewAutoprefixer(map[string]any{"overrideBrowserslist": []any{"safari 12"}})
	require.NoError(t, err)

	asset := &domain.Asset{Path: "main.scss", Contents: []byte(".a { user-select: none; }\n")}
	require.NoError(t, ap.Transform(t.Context(), asset))

	assert.Contains(t, string(asset.Contents), "-webkit-user-select: none")
	assert.Nil(t, asset.SourceMap)
}

func TestAutoprefixer_CarriesSourceMap(t *testing.T) {
	ap, err := postcss.NewAutoprefixer(nil)
	require.NoError(t, err)

	asset := &domain.Asset{
		Path:      "main.scss",
		Contents:  []byte(".a {\n  color: red;\n}\n"),
		SourceMap: []byte(`{"version":3,"sources":["main.scss"],"names":[],"mappings":"AAAA;EACE"}`),
		TrackMap:  true,
	}
	require.NoError(t, ap.Transform(t.Context(), asset))

	assert.Contains(t, string(asset.SourceMap), "main.scss")
}

func TestRucksack_Rewrite(t *testing.T) {
	r, err := postcss.NewRucksack(nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "position shorthand with two offsets",
			in:   ".a { position: absolute 0 10px; }",
			want: []string{
				"position: absolute;",
				"top: 0;",
				"right: 10px;",
				"bottom: 0;",
				"left: 10px;",
			},
		},
		{
			name: "plain position is untouched",
			in:   ".a { position: relative; }",
			want: []string{"position: relative;"},
		},
		{
			name: "hex inside rgba",
			in:   ".a { color: rgba(#fff, .5); }",
			want: []string{"color: rgba(255, 255, 255, .5);"},
		},
		{
			name: "clearfix",
			in:   ".row, .grid { clear: fix; }",
			want: []string{".row, .grid {", ".row::after, .grid::after {", `content: "";`, "display: table;", "clear: both;"},
		},
		{
			name: "easing names",
			in:   ".a { transition: opacity 1s ease-in-cubic; }",
			want: []string{"transition: opacity 1s cubic-bezier(0.55, 0.055, 0.675, 0.19);"},
		},
		{
			name: "camel case easing",
			in:   ".a { animation-timing-function: easeOutBack; }",
			want: []string{"animation-timing-function: cubic-bezier(0.175, 0.885, 0.32, 1.275);"},
		},
		{
			name: "nested in media query",
			in:   "@media (min-width: 600px) { .a { position: fixed 1px; } }",
			want: []string{"@media (min-width: 600px) {", "position: fixed;", "left: 1px;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Rewrite([]byte(tt.in))
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, string(out), w)
			}
			assert.NotContains(t, string(out), "clear: fix")
		})
	}
}

func TestRucksack_KeepsUntouchedBytes(t *testing.T) {
	r, err := postcss.NewRucksack(nil)
	require.NoError(t, err)

	in := "/* grid */\n.a {\n  position:   absolute 0;\n\tcolor: red ;\n}\n"
	out, err := r.Rewrite([]byte(in))
	require.NoError(t, err)

	assert.Equal(t,
		"/* grid */\n.a {\n  position:   absolute; top: 0; right: 0; bottom: 0; left: 0;\n\tcolor: red ;\n}\n",
		string(out))
}

func TestRucksack_ShiftsSourceMapAfterPositionExpansion(t *testing.T) {
	r, err := postcss.NewRucksack(nil)
	require.NoError(t, err)

	// Line 1 maps "position" (2), "absolute" (12) and ";" (22).
	asset := &domain.Asset{
		Path:      "main.scss",
		Contents:  []byte(".a {\n  position: absolute 0;\n  color: red;\n}\n"),
		SourceMap: []byte(`{"version":3,"sources":["main.scss"],"names":[],"mappings":"AAAA;EACE,UAAU,UAAU;EACpB"}`),
		TrackMap:  true,
	}
	require.NoError(t, r.Transform(t.Context(), asset))

	lines := strings.Split(string(asset.Contents), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "  color: red;", lines[2])

	semicolon := strings.LastIndex(lines[1], ";")
	cols, err := postcss.GeneratedColumns(asset.SourceMap)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0}, {2, 12, semicolon}, {2}}, cols)
	assert.Equal(t, 58, semicolon)
	assert.Contains(t, string(asset.SourceMap), `"sources":["main.scss"]`)
}

func TestRucksack_ShiftsSourceMapAfterHexRewrite(t *testing.T) {
	r, err := postcss.NewRucksack(nil)
	require.NoError(t, err)

	asset := &domain.Asset{
		Contents:  []byte(".a { color: rgba(#fff, .5); margin: 0; }"),
		SourceMap: []byte(`{"version":3,"sources":["a.css"],"names":[],"mappings":"AAAA,KAAK,uBAAuB"}`),
		TrackMap:  true,
	}
	require.NoError(t, r.Transform(t.Context(), asset))

	cols, err := postcss.GeneratedColumns(asset.SourceMap)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 5, strings.Index(string(asset.Contents), "margin")}}, cols)
	assert.Equal(t, 37, cols[0][2])
}

func TestRucksack_RejectsBrokenSourceMap(t *testing.T) {
	r, err := postcss.NewRucksack(nil)
	require.NoError(t, err)

	asset := &domain.Asset{
		Contents:  []byte(".a { position: absolute 0; }"),
		SourceMap: []byte(`{"version":3,"mappings":"!AAA"}`),
		TrackMap:  true,
	}
	require.Error(t, r.Transform(t.Context(), asset))
}

func TestRucksack_FeaturesCanBeDisabled(t *testing.T) {
	r, err := postcss.NewRucksack(map[string]any{"shorthandPosition": false, "clearFix": false})
	require.NoError(t, err)

	out, err := r.Rewrite([]byte(".a { position: absolute 0; clear: fix; }"))
	require.NoError(t, err)

	assert.Contains(t, string(out), "position: absolute 0;")
	assert.Contains(t, string(out), "clear: fix;")
	assert.False(t, strings.Contains(string(out), "::after"))
}

func TestMinifier(t *testing.T) {
	m, err := postcss.NewMinifier(map[string]any{"precision": 2})
	require.NoError(t, err)

	asset := &domain.Asset{
		Contents:  []byte(".a {\n  margin: 0px;\n  width: 33.33333%;\n}\n"),
		SourceMap: []byte("{}"),
	}
	require.NoError(t, m.Transform(t.Context(), asset))

	assert.NotContains(t, string(asset.Contents), "\n")
	assert.Contains(t, string(asset.Contents), "margin:0")
	assert.Nil(t, asset.SourceMap)
}
