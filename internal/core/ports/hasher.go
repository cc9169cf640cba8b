package ports

import (
	"context"

	"go.trai.ch/rebuild/internal/core/domain"
)

// ContentHasher fingerprints source units so that modified units can be detected.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type ContentHasher interface {
	// HashUnits returns a content fingerprint for every unit, resolved against root.
	HashUnits(ctx context.Context, root string, units []domain.Unit) (map[domain.Unit]uint64, error)
}
