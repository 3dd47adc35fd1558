package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/hszk-dev/vidshare/internal/domain/model"
	"github.com/hszk-dev/vidshare/internal/domain/repository"
	"github.com/hszk-dev/vidshare/internal/infrastructure/cache"
	"github.com/hszk-dev/vidshare/internal/infrastructure/metrics"
	"golang.org/x/sync/singleflight"
)

const catalogFlightKey = "catalog"

// CachedVideoServiceConfig holds configuration for CachedVideoService.
type CachedVideoServiceConfig struct {
	// CatalogTTL is how long a catalog snapshot is served from cache.
	CatalogTTL time.Duration
	// SignedURLExpiry is the lifetime of signed media, thumbnail and avatar links.
	SignedURLExpiry time.Duration
}

// DefaultCachedVideoServiceConfig returns the default configuration.
func DefaultCachedVideoServiceConfig() CachedVideoServiceConfig {
	return CachedVideoServiceConfig{
		CatalogTTL:      30 * time.Second,
		SignedURLExpiry: time.Hour,
	}
}

// cachedVideoService wraps VideoService with catalog caching and link signing.
// Cached entries always hold raw object keys; signing happens per response.
type cachedVideoService struct {
	delegate VideoService
	cache    cache.CatalogCache
	storage  repository.ObjectStorage
	sfGroup  singleflight.Group

	catalogTTL      time.Duration
	signedURLExpiry time.Duration
}

// NewCachedVideoService creates a new CachedVideoService wrapping the provided VideoService.
// storage may be nil, in which case object keys are returned unsigned.
func NewCachedVideoService(
	delegate VideoService,
	catalogCache cache.CatalogCache,
	storage repository.ObjectStorage,
	cfg CachedVideoServiceConfig,
) VideoService {
	return &cachedVideoService{
		delegate:        delegate,
		cache:           catalogCache,
		storage:         storage,
		catalogTTL:      cfg.CatalogTTL,
		signedURLExpiry: cfg.SignedURLExpiry,
	}
}

// ListVideos serves the catalog through the cache.
// Concurrent misses are coalesced into one delegate call.
func (s *cachedVideoService) ListVideos(ctx context.Context) ([]*model.Video, error) {
	videos, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return s.sign(ctx, videos), nil
}

// GetVideos without an id is the same catalog read as ListVideos.
// Single-video lookups bypass the cache.
func (s *cachedVideoService) GetVideos(ctx context.Context, id string) ([]*model.Video, error) {
	if id == "" {
		return s.ListVideos(ctx)
	}

	videos, err := s.delegate.GetVideos(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.sign(ctx, videos), nil
}

// RecordView does not invalidate the catalog; counters converge within CatalogTTL.
func (s *cachedVideoService) RecordView(ctx context.Context, id string) error {
	return s.delegate.RecordView(ctx, id)
}

func (s *cachedVideoService) catalog(ctx context.Context) ([]*model.Video, error) {
	result, err, shared := s.sfGroup.Do(catalogFlightKey, func() (any, error) {
		return s.catalogWithCache(ctx)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}
	return result.([]*model.Video), nil
}

// catalogWithCache implements the cache-aside pattern.
func (s *cachedVideoService) catalogWithCache(ctx context.Context) ([]*model.Video, error) {
	videos, err := s.cache.Get(ctx)
	if err != nil {
		slog.Warn("catalog cache get failed, falling back to database", "error", err)
	}

	if videos != nil {
		return videos, nil
	}

	videos, err = s.delegate.ListVideos(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, videos, s.catalogTTL); err != nil {
		slog.Warn("failed to cache catalog", "count", len(videos), "error", err)
	}

	return videos, nil
}

// sign returns copies of videos with object keys replaced by signed URLs.
// A key that fails to sign is passed through unchanged.
func (s *cachedVideoService) sign(ctx context.Context, videos []*model.Video) []*model.Video {
	out := make([]*model.Video, 0, len(videos))
	for _, v := range videos {
		c := v.Clone()
		if s.storage != nil {
			c.MediaURL = s.signRef(ctx, c.ID, c.MediaURL)
			c.Thumbnail = s.signRef(ctx, c.ID, c.Thumbnail)
			c.UploaderAvatar = s.signRef(ctx, c.ID, c.UploaderAvatar)
		}
		out = append(out, c)
	}
	return out
}

func (s *cachedVideoService) signRef(ctx context.Context, videoID, ref string) string {
	if !model.IsObjectKey(ref) {
		return ref
	}

	signed, err := s.storage.GeneratePresignedDownloadURL(ctx, ref, s.signedURLExpiry)
	if err != nil {
		slog.Warn("failed to sign object key",
			"video_id", videoID,
			"key", ref,
			"error", err,
		)
		return ref
	}
	return signed
}
