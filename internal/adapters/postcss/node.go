package postcss

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
)

// NodeID is the unique identifier for the post-processing Graft node.
const NodeID graft.ID = "adapter.postcss"

// Factory builds the transforms for one configuration. The option bags live in
// gild.yaml, so the transforms cannot exist before the config is loaded.
type Factory struct{}

// Transforms builds the autoprefix, rucksack and minify transforms.
func (Factory) Transforms(opts domain.Options) (autoprefix, rucksack, minify ports.CSSTransform, err error) {
	ap, err := NewAutoprefixer(opts.Autoprefixer)
	if err != nil {
		return nil, nil, nil, err
	}
	rs, err := NewRucksack(opts.Rucksack)
	if err != nil {
		return nil, nil, nil, err
	}
	mn, err := NewMinifier(opts.Cssnano)
	if err != nil {
		return nil, nil, nil, err
	}
	return ap, rs, mn, nil
}

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Factory, error) {
			return Factory{}, nil
		},
	})
}
