// Package config provides the gild.yaml loader.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds gild.yaml in cwd or the nearest parent and returns the resolved configuration.
func (l *Loader) Load(cwd string) (*domain.ProjectConfig, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var file Gildfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if err := validate(&file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	for _, name := range slices.Sorted(maps.Keys(file.Options)) {
		if !knownBag(name) {
			l.Logger.Warn(fmt.Sprintf("unknown options bag %q in %s is ignored", name, domain.ConfigFileName))
		}
	}

	return toProjectConfig(&file, resolveRoot(configPath, file.Root)), nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", domain.Mark(domain.ErrConfigNotFound, "cwd", cwd)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath comes from discovery
	data, err := os.ReadFile(configPath)
	if err != nil {
		return domain.Wrap(err, domain.ErrConfigReadFailed)
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return domain.Wrap(parseErr, domain.ErrConfigParseFailed)
	}

	return nil
}

func validate(f *Gildfile) error {
	required := []struct {
		field string
		value string
	}{
		{"paths.styles.src", f.Paths.Styles.Src},
		{"paths.styles.dist", f.Paths.Styles.Dist},
		{"paths.dist.js", f.Paths.Dist.JS},
		{"src.dir", f.Src.Dir},
		{"src.js", f.Src.JS},
	}
	for _, r := range required {
		if r.value == "" {
			return domain.Mark(domain.ErrConfigMissingField, "field", r.field)
		}
	}
	return nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

func toProjectConfig(f *Gildfile, root string) *domain.ProjectConfig {
	cfg := &domain.ProjectConfig{
		Root: root,
		Paths: domain.Paths{
			Styles: domain.StylePaths{Src: f.Paths.Styles.Src, Dist: f.Paths.Styles.Dist},
			Dist:   domain.DistPaths{JS: f.Paths.Dist.JS},
		},
		Src: domain.Source{Dir: f.Src.Dir, JS: f.Src.JS},
		Options: domain.Options{
			Scss:         f.Options[bagScss],
			Autoprefixer: f.Options[bagAutoprefixer],
			Rucksack:     f.Options[bagRucksack],
			Cssnano:      f.Options[bagCssnano],
			Webpack:      f.Options[bagWebpack],
		},
		Flags: domain.Flags{
			Analyze:    f.Flags.Analyze,
			Production: f.Flags.Production,
			Debug:      f.Flags.Debug,
		},
		Server: domain.Server{
			Host: f.Server.Host,
			Port: f.Server.Port,
			Root: f.Server.Root,
		},
		Notify: domain.Notify{Enabled: true},
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = domain.DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = domain.DefaultServerPort
	}
	if cfg.Server.Root == "" {
		cfg.Server.Root = "."
	}
	if f.Notify.Enabled != nil {
		cfg.Notify.Enabled = *f.Notify.Enabled
	}

	return cfg
}

func knownBag(name string) bool {
	switch name {
	case bagScss, bagAutoprefixer, bagRucksack, bagCssnano, bagWebpack:
		return true
	}
	return false
}
