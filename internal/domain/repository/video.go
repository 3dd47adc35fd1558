package repository

import (
	"context"

	"github.com/hszk-dev/vidshare/internal/domain/model"
)

// VideoRepository defines the interface for video persistence operations.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type VideoRepository interface {
	// List retrieves the whole catalog, newest upload first.
	// Returns empty slice if the catalog is empty.
	List(ctx context.Context) ([]*model.Video, error)

	// GetByID retrieves a video by its identifier.
	// Returns nil and ErrVideoNotFound if the video does not exist.
	GetByID(ctx context.Context, id string) (*model.Video, error)

	// IncrementViews adds delta to the view counter of a video.
	// Returns ErrVideoNotFound if the video does not exist.
	IncrementViews(ctx context.Context, id string, delta int64) error
}

// AccountRepository defines read access to accounts.
type AccountRepository interface {
	// GetProfile retrieves an account with the IDs of its videos and blogs.
	// Returns nil and ErrAccountNotFound if no account has the username.
	GetProfile(ctx context.Context, username string) (*model.Profile, error)
}
