// Package notify implements desktop notifications and the build reporter.
package notify

import (
	"os"

	"golang.org/x/term"
)

// DetectDesktop reports whether desktop notifications make sense: stdout is a
// terminal and no CI environment variable is set.
func DetectDesktop() bool {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	return isTTY && !isCI
}
