package config

// Gildfile represents the structure of the gild.yaml configuration file.
type Gildfile struct {
	Version string                    `yaml:"version"`
	Root    string                    `yaml:"root"`
	Paths   PathsDTO                  `yaml:"paths"`
	Src     SourceDTO                 `yaml:"src"`
	Options map[string]map[string]any `yaml:"options"`
	Flags   FlagsDTO                  `yaml:"flags"`
	Server  ServerDTO                 `yaml:"server"`
	Notify  NotifyDTO                 `yaml:"notify"`
}

// PathsDTO holds the style and bundle locations.
type PathsDTO struct {
	Styles struct {
		Src  string `yaml:"src"`
		Dist string `yaml:"dist"`
	} `yaml:"styles"`
	Dist struct {
		JS string `yaml:"js"`
	} `yaml:"dist"`
}

// SourceDTO locates script entry points.
type SourceDTO struct {
	Dir string `yaml:"dir"`
	JS  string `yaml:"js"`
}

// FlagsDTO holds the file-level defaults of the run switches.
type FlagsDTO struct {
	Analyze    bool `yaml:"analyze"`
	Production bool `yaml:"production"`
	Debug      bool `yaml:"debug"`
}

// ServerDTO configures the development server.
type ServerDTO struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Root string `yaml:"root"`
}

// NotifyDTO configures desktop notifications. Enabled is a pointer so an
// absent key can default to true.
type NotifyDTO struct {
	Enabled *bool `yaml:"enabled"`
}

// Option bag names understood by the pipeline.
const (
	bagScss         = "scss"
	bagAutoprefixer = "autoprefixer"
	bagRucksack     = "rucksack"
	bagCssnano      = "cssnano"
	bagWebpack      = "webpack"
)
