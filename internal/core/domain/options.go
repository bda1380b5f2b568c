package domain

import (
	"gopkg.in/yaml.v3"
)

// SassOptions are the preprocessor options decoded from options.scss.
type SassOptions struct {
	IncludePaths        []string `yaml:"includePaths"`
	OutputStyle         string   `yaml:"outputStyle"`
	SilenceDeprecations []string `yaml:"silenceDeprecations"`
	// Concurrency bounds how many files compile at once. It is set internally
	// before the user bag is applied, so the bag may override it.
	Concurrency int `yaml:"concurrency"`
}

// AutoprefixerOptions are decoded from options.autoprefixer.
type AutoprefixerOptions struct {
	OverrideBrowserslist []string `yaml:"overrideBrowserslist"`
	Browsers             []string `yaml:"browsers"`
}

// Targets returns the browser list, preferring overrideBrowserslist.
func (o AutoprefixerOptions) Targets() []string {
	if len(o.OverrideBrowserslist) > 0 {
		return o.OverrideBrowserslist
	}
	return o.Browsers
}

// RucksackOptions toggles the rule-injection features, all enabled by default.
type RucksackOptions struct {
	ShorthandPosition bool `yaml:"shorthandPosition"`
	HexRGBA           bool `yaml:"hexRGBA"`
	Clearfix          bool `yaml:"clearFix"`
	Easings           bool `yaml:"easings"`
}

// DefaultRucksackOptions returns the options with every feature enabled.
func DefaultRucksackOptions() RucksackOptions {
	return RucksackOptions{
		ShorthandPosition: true,
		HexRGBA:           true,
		Clearfix:          true,
		Easings:           true,
	}
}

// CssnanoOptions are decoded from options.cssnano.
type CssnanoOptions struct {
	Precision int  `yaml:"precision"`
	KeepCSS2  bool `yaml:"keepCSS2"`
}

// DecodeOptions decodes an opaque option bag into out, which should already
// hold the defaults. Keys absent from the bag keep their default value and
// unknown keys are ignored.
func DecodeOptions(bag map[string]any, out any) error {
	if len(bag) == 0 {
		return nil
	}

	raw, err := yaml.Marshal(bag)
	if err != nil {
		return Wrap(err, ErrOptionsDecodeFailed)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return Wrap(err, ErrOptionsDecodeFailed)
	}
	return nil
}
