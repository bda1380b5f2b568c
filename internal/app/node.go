package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/gild/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/gild/internal/adapters/esbuild" //nolint:depguard // Wired in app layer
	"go.trai.ch/gild/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/gild/internal/adapters/notify"  //nolint:depguard // Wired in app layer
	"go.trai.ch/gild/internal/adapters/postcss" //nolint:depguard // Wired in app layer
	"go.trai.ch/gild/internal/adapters/reload"  //nolint:depguard // Wired in app layer
	"go.trai.ch/gild/internal/adapters/sass"    //nolint:depguard // Wired in app layer
	"go.trai.ch/gild/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/gild/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			sass.NodeID,
			postcss.NodeID,
			esbuild.NodeID,
			notify.NodeID,
			reload.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	compiler, err := graft.Dep[*sass.Compiler](ctx)
	if err != nil {
		return nil, err
	}
	transforms, err := graft.Dep[postcss.Factory](ctx)
	if err != nil {
		return nil, err
	}
	bundler, err := graft.Dep[ports.Bundler](ctx)
	if err != nil {
		return nil, err
	}
	notifier, err := graft.Dep[ports.Notifier](ctx)
	if err != nil {
		return nil, err
	}
	hub, err := graft.Dep[*reload.Hub](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, compiler, transforms, bundler, notifier, hub, w), nil
}
