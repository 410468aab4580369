package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/basesweep/internal/core/ports"
)

const (
	ScannerNodeID graft.ID = "adapter.fs.scanner"
	HasherNodeID  graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[ports.FileSystem]{
		ID:        ScannerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileSystem, error) {
			return NewScanner(), nil
		},
	})

	graft.Register(graft.Node[ports.PlanHasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PlanHasher, error) {
			return NewHasher(), nil
		},
	})
}
