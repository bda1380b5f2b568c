package sass_test

import (
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bep/godartsass/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gild/internal/adapters/sass"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBuildArgs(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "project")
	asset := &domain.Asset{
		Root:     root,
		Path:     "src/scss/main.scss",
		Base:     "src/scss",
		Contents: []byte("body { color: red; }"),
		TrackMap: true,
	}
	opts := domain.SassOptions{
		IncludePaths:        []string{"node_modules", "/opt/styles"},
		OutputStyle:         "compressed",
		SilenceDeprecations: []string{"import"},
	}

	args := sass.BuildArgs(asset, opts)

	assert.Equal(t, "body { color: red; }", args.Source)
	assert.Equal(t, godartsass.SourceSyntaxSCSS, args.SourceSyntax)
	assert.Equal(t, godartsass.OutputStyleCompressed, args.OutputStyle)
	assert.True(t, args.EnableSourceMap)
	assert.Equal(t, []string{"import"}, args.SilenceDeprecations)
	assert.Equal(t, []string{
		filepath.Join(root, "src", "scss"),
		filepath.Join(root, "node_modules"),
		"/opt/styles",
	}, args.IncludePaths)
	assert.True(t, strings.HasPrefix(args.URL, "file:///"))
	assert.True(t, strings.HasSuffix(args.URL, "/src/scss/main.scss"))
}

func TestBuildArgs_IndentedSyntaxAndNoMaps(t *testing.T) {
	args := sass.BuildArgs(&domain.Asset{Root: "/p", Path: "styles/site.sass"}, domain.SassOptions{})

	assert.Equal(t, godartsass.SourceSyntaxSASS, args.SourceSyntax)
	assert.Equal(t, godartsass.OutputStyleExpanded, args.OutputStyle)
	assert.False(t, args.EnableSourceMap)
}

func TestCompiler_Compile(t *testing.T) {
	if _, err := exec.LookPath("sass"); err != nil {
		t.Skip("dart-sass not found on PATH")
	}

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	c := sass.NewCompiler(log)
	t.Cleanup(func() { _ = c.Close() })

	root := t.TempDir()
	asset := &domain.Asset{
		Root:     root,
		Path:     "main.scss",
		Contents: []byte("$c: red;\nbody { color: $c; }\n"),
		TrackMap: true,
	}

	require.NoError(t, c.Compile(t.Context(), asset, domain.SassOptions{}))
	assert.Contains(t, string(asset.Contents), "color: red")
	assert.NotEmpty(t, asset.SourceMap)

	broken := &domain.Asset{Root: root, Path: "broken.scss", Contents: []byte("body { color: ")}
	err := c.Compile(t.Context(), broken, domain.SassOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrStyleCompileFailed.Error())
	assert.Equal(t, "body { color: ", string(broken.Contents))
}
