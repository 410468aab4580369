package qemu

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/basesweep/internal/adapters/shell" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/basesweep/internal/core/ports"
)

// NodeID is the unique identifier for the disk metadata factory Graft node.
const NodeID graft.ID = "adapter.qemu"

func init() {
	graft.Register(graft.Node[ports.DiskMetadataFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.DiskMetadataFactory, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(runner), nil
		},
	})
}
