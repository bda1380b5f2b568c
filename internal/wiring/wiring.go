// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/gild/internal/adapters/config"
	_ "go.trai.ch/gild/internal/adapters/esbuild"
	_ "go.trai.ch/gild/internal/adapters/logger"
	_ "go.trai.ch/gild/internal/adapters/notify"
	_ "go.trai.ch/gild/internal/adapters/postcss"
	_ "go.trai.ch/gild/internal/adapters/reload"
	_ "go.trai.ch/gild/internal/adapters/sass"
	_ "go.trai.ch/gild/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/gild/internal/app"
)
