package ports

import (
	"context"

	"go.trai.ch/gild/internal/core/domain"
)

// Bundler runs one script bundling pass.
//
//go:generate mockgen -source=bundler.go -destination=mocks/mock_bundler.go -package=mocks
type Bundler interface {
	// Run builds with the given configuration.
	// A non-nil error means the build could not be set up or started; compile
	// errors and warnings are reported through the returned stats instead.
	Run(ctx context.Context, cfg *domain.BundlerConfig) (*domain.BuildStats, error)
}
