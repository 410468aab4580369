// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/basesweep/internal/adapters/config"
	_ "go.trai.ch/basesweep/internal/adapters/fs"
	_ "go.trai.ch/basesweep/internal/adapters/journal"
	_ "go.trai.ch/basesweep/internal/adapters/logger"
	_ "go.trai.ch/basesweep/internal/adapters/novaconf"
	_ "go.trai.ch/basesweep/internal/adapters/qemu"
	_ "go.trai.ch/basesweep/internal/adapters/shell"
	_ "go.trai.ch/basesweep/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/basesweep/internal/app"
)
