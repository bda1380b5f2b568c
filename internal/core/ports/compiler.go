package ports

import (
	"context"

	"go.trai.ch/gild/internal/core/domain"
)

// StyleCompiler compiles preprocessor syntax into CSS.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type StyleCompiler interface {
	// Compile replaces asset.Contents with compiled CSS. When asset.TrackMap is set
	// it also fills asset.SourceMap. A compile error leaves the asset untouched.
	Compile(ctx context.Context, asset *domain.Asset, opts domain.SassOptions) error
}
