package novaconf

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/basesweep/internal/core/ports"
)

// NodeID is the unique identifier for the nova.conf reader Graft node.
const NodeID graft.ID = "adapter.novaconf"

func init() {
	graft.Register(graft.Node[ports.NovaConfigReader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.NovaConfigReader, error) {
			return NewReader(), nil
		},
	})
}
