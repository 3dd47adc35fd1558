package cache

import (
	"context"
	"time"

	"github.com/hszk-dev/vidshare/internal/domain/model"
)

// CatalogCache defines the interface for caching the video catalog.
// Implementations should handle serialization/deserialization transparently.
type CatalogCache interface {
	// Get retrieves the cached catalog.
	// Returns nil, nil if the catalog is not cached (cache miss).
	Get(ctx context.Context) ([]*model.Video, error)

	// Set stores the catalog with the specified TTL.
	Set(ctx context.Context, videos []*model.Video, ttl time.Duration) error

	// Delete evicts the cached catalog.
	// Returns nil if nothing was cached.
	Delete(ctx context.Context) error
}
