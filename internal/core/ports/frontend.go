// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/rebuild/internal/core/domain"
)

// Frontend compiles batches of source units into definitions and references.
//
//go:generate go run go.uber.org/mock/mockgen -source=frontend.go -destination=mocks/mock_frontend.go -package=mocks
type Frontend interface {
	// Compile compiles the given units as one batch.
	//
	// A batch either succeeds for every unit or reports error diagnostics; callers must not
	// use the definitions of a result whose HasErrors reports true.
	Compile(ctx context.Context, units []domain.Unit) (*domain.CompileResult, error)

	// Reset clears any transient error state left over from the previous batch.
	Reset()
}
