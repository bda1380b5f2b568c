package ports

import (
	"context"

	"go.trai.ch/gild/internal/core/domain"
)

// CSSTransform is one post-processing plugin: it takes compiled CSS and returns
// transformed CSS in place.
//
//go:generate mockgen -source=transform.go -destination=mocks/mock_transform.go -package=mocks
type CSSTransform interface {
	// Name identifies the transform in logs.
	Name() string
	// Transform rewrites asset.Contents, carrying asset.SourceMap along when it can.
	Transform(ctx context.Context, asset *domain.Asset) error
}
