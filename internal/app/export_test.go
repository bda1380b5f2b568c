package app

import "time"

// WithDebounce shortens the watch debounce window.
func (a *App) WithDebounce(d time.Duration) *App {
	a.debounce = d
	return a
}

// Classify exposes the change classification: 0 none, 1 style, 2 script.
func Classify(path string) int {
	return int(classify(path))
}
