// Package domain contains the core domain models of the asset pipeline.
package domain

import "path/filepath"

// ProjectConfig is the fully resolved project configuration handed to the task builders.
// Builders treat it as read-only and never validate or default it.
type ProjectConfig struct {
	// Root is the directory relative paths are resolved against.
	Root    string  `json:"root"`
	Paths   Paths   `json:"paths"`
	Src     Source  `json:"src"`
	Options Options `json:"options"`
	Flags   Flags   `json:"flags"`
	Server  Server  `json:"server"`
	Notify  Notify  `json:"notify"`
}

// Paths groups the input and output locations.
type Paths struct {
	Styles StylePaths `json:"styles"`
	Dist   DistPaths  `json:"dist"`
}

// StylePaths locates style sources (a glob) and their output directory.
type StylePaths struct {
	Src  string `json:"src"`
	Dist string `json:"dist"`
}

// DistPaths locates bundled output.
type DistPaths struct {
	JS string `json:"js"`
}

// Source describes where script entry points live.
// JS is a glob fragment relative to Dir; only its non-glob parent is scanned for entries.
type Source struct {
	Dir string `json:"dir"`
	JS  string `json:"js"`
}

// Options holds the opaque option bags passed through to the underlying tools.
type Options struct {
	Scss         map[string]any `json:"scss,omitempty"`
	Autoprefixer map[string]any `json:"autoprefixer,omitempty"`
	Rucksack     map[string]any `json:"rucksack,omitempty"`
	Cssnano      map[string]any `json:"cssnano,omitempty"`
	Webpack      map[string]any `json:"webpack,omitempty"`
}

// Flags are the boolean switches of a run.
type Flags struct {
	Analyze    bool `json:"analyze"`
	Production bool `json:"production"`
	Debug      bool `json:"debug"`
}

// Server configures the development server that carries the live-reload channel.
type Server struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	Root string `json:"root"`
}

// Notify configures desktop notifications.
type Notify struct {
	Enabled bool `json:"enabled"`
}

// Abs resolves p against the project root. Absolute paths are returned unchanged.
func (c *ProjectConfig) Abs(p string) string {
	if filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}
