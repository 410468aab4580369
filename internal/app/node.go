package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/basesweep/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/basesweep/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/basesweep/internal/adapters/journal"            //nolint:depguard // Wired in app layer
	"go.trai.ch/basesweep/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/basesweep/internal/adapters/novaconf"           //nolint:depguard // Wired in app layer
	"go.trai.ch/basesweep/internal/adapters/qemu"               //nolint:depguard // Wired in app layer
	"go.trai.ch/basesweep/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/basesweep/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			novaconf.NodeID,
			fs.ScannerNodeID,
			fs.HasherNodeID,
			qemu.NodeID,
			journal.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
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

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.SettingsLoader](ctx)
	if err != nil {
		return nil, err
	}

	nova, err := graft.Dep[ports.NovaConfigReader](ctx)
	if err != nil {
		return nil, err
	}

	fileSystem, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.PlanHasher](ctx)
	if err != nil {
		return nil, err
	}

	diskFactory, err := graft.Dep[ports.DiskMetadataFactory](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.Journal](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, nova, fileSystem, diskFactory, hasher, store, telemetry, log), nil
}
