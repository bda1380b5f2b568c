// Package style holds the terminal palette and glyphs shared by console output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Gold  = lipgloss.Color("#D4A72C")
	Slate = lipgloss.Color("#667085")
	Green = lipgloss.Color("#22A06B")
	Red   = lipgloss.Color("#D93025")
	Amber = lipgloss.Color("#F59E0B")
)

// Glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
)
