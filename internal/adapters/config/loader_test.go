package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gild/internal/adapters/config"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const minimalConfig = `
paths:
  styles:
    src: "src/scss/**/*.scss"
    dist: "dist/css"
  dist:
    js: "dist/js"
src:
  dir: "src"
  js: "js/**/*.js"
`

func createFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), domain.FilePerm))
}

func newLoader(t *testing.T) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	return config.NewLoader(mockLogger), mockLogger
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, minimalConfig)

	cfg, err := loader.Load(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Clean(root), cfg.Root)
	assert.Equal(t, "src/scss/**/*.scss", cfg.Paths.Styles.Src)
	assert.Equal(t, "dist/css", cfg.Paths.Styles.Dist)
	assert.Equal(t, "dist/js", cfg.Paths.Dist.JS)
	assert.Equal(t, "src", cfg.Src.Dir)
	assert.Equal(t, "js/**/*.js", cfg.Src.JS)
	assert.Equal(t, domain.DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, domain.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, ".", cfg.Server.Root)
	assert.True(t, cfg.Notify.Enabled)
	assert.False(t, cfg.Flags.Production)
	assert.Nil(t, cfg.Options.Webpack)
}

func TestLoader_Load_FullFile(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, minimalConfig+`
options:
  scss:
    includePaths: ["node_modules"]
  webpack:
    output:
      publicPath: "/assets/js/"
flags:
  production: true
  analyze: true
server:
  port: 8080
  root: public
notify:
  enabled: false
`)

	cfg, err := loader.Load(root)
	require.NoError(t, err)

	assert.True(t, cfg.Flags.Production)
	assert.True(t, cfg.Flags.Analyze)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "public", cfg.Server.Root)
	assert.False(t, cfg.Notify.Enabled)
	assert.Equal(t, []any{"node_modules"}, cfg.Options.Scss["includePaths"])
	assert.Equal(t, map[string]any{"publicPath": "/assets/js/"}, cfg.Options.Webpack["output"])
}

func TestLoader_Load_WalksUp(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, minimalConfig)

	nested := filepath.Join(root, "src", "js")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	cfg, err := loader.Load(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(root), cfg.Root)
}

func TestLoader_Load_ConfiguredRoot(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "root: web\n"+minimalConfig)

	cfg, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "web"), cfg.Root)
}

func TestLoader_Load_NotFound(t *testing.T) {
	loader, _ := newLoader(t)

	_, err := loader.Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigNotFound.Error())
}

func TestLoader_Load_MissingField(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, `
paths:
  styles:
    src: "src/scss/*.scss"
    dist: "dist/css"
`)

	_, err := loader.Load(root)
	require.Error(t, err)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "paths.dist.js", zErr.Metadata()["field"])
}

func TestLoader_Load_ParseError(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "paths: [unterminated\n")

	_, err := loader.Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigParseFailed.Error())
}

func TestLoader_Load_WarnsOnUnknownBag(t *testing.T) {
	loader, mockLogger := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, minimalConfig+`
options:
  postcss:
    foo: bar
`)

	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	_, err := loader.Load(root)
	require.NoError(t, err)
}
