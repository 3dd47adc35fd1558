package repository

import (
	"context"
	"time"
)

// ObjectStorage defines the interface for object storage operations.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
type ObjectStorage interface {
	// GeneratePresignedDownloadURL creates a presigned URL for reading an object.
	// The URL is valid for the specified duration.
	// key is the object path within the bucket (e.g., "videos/{video_id}/source.mp4").
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error
}
