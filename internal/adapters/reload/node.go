package reload

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the live-reload hub Graft node.
const NodeID graft.ID = "adapter.reload"

func init() {
	graft.Register(graft.Node[*Hub]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Hub, error) {
			return NewHub(), nil
		},
	})
}
