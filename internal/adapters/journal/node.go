package journal

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/basesweep/internal/core/ports"
)

const NodeID graft.ID = "adapter.journal"

func init() {
	graft.Register(graft.Node[ports.Journal]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Journal, error) {
			return NewStore(), nil
		},
	})
}
