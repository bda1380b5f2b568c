package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// AssetStat describes one emitted bundle file.
type AssetStat struct {
	Name       string `json:"name"`
	Size       int    `json:"size"`
	EntryPoint string `json:"entryPoint,omitempty"`
}

// BuildStats is the bundler's report for one build. It is read-only once returned.
type BuildStats struct {
	Errors      []string
	Warnings    []string
	Assets      []AssetStat
	Entrypoints map[string][]string
	Duration    time.Duration
}

// StatsJSON is the serializable summary derived from BuildStats.
type StatsJSON struct {
	Errors      []string            `json:"errors"`
	Warnings    []string            `json:"warnings"`
	Assets      []AssetStat         `json:"assets"`
	Entrypoints map[string][]string `json:"entrypoints"`
	Time        int64               `json:"time"`
}

// HasErrors reports whether the build produced errors.
func (s *BuildStats) HasErrors() bool {
	return s != nil && len(s.Errors) > 0
}

// HasWarnings reports whether the build produced warnings.
func (s *BuildStats) HasWarnings() bool {
	return s != nil && len(s.Warnings) > 0
}

// ToJSON derives the JSON summary. A nil receiver yields an empty summary.
func (s *BuildStats) ToJSON() StatsJSON {
	if s == nil {
		return StatsJSON{Errors: []string{}, Warnings: []string{}, Assets: []AssetStat{}}
	}
	out := StatsJSON{
		Errors:      append([]string{}, s.Errors...),
		Warnings:    append([]string{}, s.Warnings...),
		Assets:      append([]AssetStat{}, s.Assets...),
		Entrypoints: s.Entrypoints,
		Time:        s.Duration.Milliseconds(),
	}
	return out
}

// String renders the human-readable report.
func (s *BuildStats) String() string {
	if s == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "built in %s\n", s.Duration.Round(time.Millisecond))

	assets := slices.Clone(s.Assets)
	slices.SortFunc(assets, func(a, b AssetStat) int { return strings.Compare(a.Name, b.Name) })
	for _, a := range assets {
		line := fmt.Sprintf("  %-48s %10s", a.Name, formatSize(a.Size))
		if a.EntryPoint != "" {
			line += "  [entry " + a.EntryPoint + "]"
		}
		b.WriteString(line + "\n")
	}

	fmt.Fprintf(&b, "%d error(s), %d warning(s)\n", len(s.Errors), len(s.Warnings))
	for _, e := range s.Errors {
		b.WriteString("ERROR " + e + "\n")
	}
	for _, w := range s.Warnings {
		b.WriteString("WARNING " + w + "\n")
	}
	return b.String()
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.2f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.2f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
