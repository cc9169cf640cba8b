package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rebuild/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/fs"         //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/graphstore" //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/linear"     //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/telemetry"  //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/watcher"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/core/ports"
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
			fs.ResolverNodeID,
			fs.HasherNodeID,
			graphstore.NodeID,
			watcher.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			linear.NodeID,
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

	resolver, err := graft.Dep[ports.SourceResolver](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.ContentHasher](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.GraphStore](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[*linear.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, resolver, hasher, store, w, log, tracer, renderer), nil
}
