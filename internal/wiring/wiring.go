// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/rebuild/internal/adapters/config"
	_ "go.trai.ch/rebuild/internal/adapters/fs"
	_ "go.trai.ch/rebuild/internal/adapters/graphstore"
	_ "go.trai.ch/rebuild/internal/adapters/linear"
	_ "go.trai.ch/rebuild/internal/adapters/logger"
	_ "go.trai.ch/rebuild/internal/adapters/telemetry"
	_ "go.trai.ch/rebuild/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/rebuild/internal/app"
)
