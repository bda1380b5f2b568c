package domain

// Bundler modes.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// DevtoolInlineSourceMap embeds source maps in the bundled output.
const DevtoolInlineSourceMap = "inline-source-map"

// Plugin names understood by the bundler adapter.
const (
	PluginProvide        = "provide"
	PluginBundleAnalyzer = "bundle-analyzer"
)

// BundlerConfig is the bundler configuration synthesized for one script task.
// It is mutated while entries and plugins are added and overrides are merged,
// then handed to the bundler and not touched again.
type BundlerConfig struct {
	// Context is the directory entries and loaders are resolved against.
	Context      string            `json:"context,omitempty"    yaml:"context"`
	Entry        map[string]string `json:"entry"                yaml:"entry"`
	Output       Output            `json:"output"               yaml:"output"`
	Module       Module            `json:"module"               yaml:"module"`
	Optimization Optimization      `json:"optimization"         yaml:"optimization"`
	Plugins      []Plugin          `json:"plugins"              yaml:"plugins"`
	Mode         string            `json:"mode"                 yaml:"mode"`
	Devtool      string            `json:"devtool,omitempty"    yaml:"devtool"`
	Target       []string          `json:"target,omitempty"     yaml:"target"`
	Externals    []string          `json:"externals,omitempty"  yaml:"externals"`
	Define       map[string]string `json:"define,omitempty"     yaml:"define"`
	Resolve      Resolve           `json:"resolve,omitzero"     yaml:"resolve"`
}

// Output describes where and under which names bundles are written.
type Output struct {
	Path          string `json:"path"                    yaml:"path"`
	Filename      string `json:"filename"                yaml:"filename"`
	ChunkFilename string `json:"chunkFilename,omitempty" yaml:"chunkFilename"`
	PublicPath    string `json:"publicPath,omitempty"    yaml:"publicPath"`
}

// Module holds the module transform rules.
type Module struct {
	Rules []Rule `json:"rules" yaml:"rules"`
}

// Rule routes files whose path matches Test (and not Exclude) through a loader.
type Rule struct {
	Test    string `json:"test"              yaml:"test"`
	Exclude string `json:"exclude,omitempty" yaml:"exclude"`
	Use     Use    `json:"use"               yaml:"use"`
}

// Use names a loader and its options.
type Use struct {
	Loader  string         `json:"loader"            yaml:"loader"`
	Options map[string]any `json:"options,omitempty" yaml:"options"`
}

// Optimization holds the code-splitting policy.
type Optimization struct {
	SplitChunks SplitChunks `json:"splitChunks" yaml:"splitChunks"`
}

// SplitChunks selects which chunk types are split.
type SplitChunks struct {
	Chunks string `json:"chunks" yaml:"chunks"`
}

// Plugin is a named bundler plugin with its options.
type Plugin struct {
	Name    string         `json:"name"              yaml:"name"`
	Options map[string]any `json:"options,omitempty" yaml:"options"`
}

// Resolve holds module resolution tweaks.
type Resolve struct {
	Alias map[string]string `json:"alias,omitempty" yaml:"alias"`
}

// HasPlugin reports whether a plugin with the given name is configured.
func (c *BundlerConfig) HasPlugin(name string) bool {
	for _, p := range c.Plugins {
		if p.Name == name {
			return true
		}
	}
	return false
}
