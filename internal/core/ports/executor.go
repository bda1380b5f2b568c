// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/gild/internal/core/domain"
)

// Executor defines the interface for executing tasks.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the given task and blocks until it has completed.
	Execute(ctx context.Context, task *domain.Task) error
}
