package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/vidshare/internal/domain/model"
	"github.com/hszk-dev/vidshare/internal/infrastructure/metrics"
)

const (
	// catalogCacheKey is the Redis key holding the serialized catalog.
	catalogCacheKey = "catalog:all"
)

// videoJSON is the JSON representation of a Video for caching.
// Using explicit struct avoids coupling to domain model's JSON tags.
type videoJSON struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Views          int64  `json:"views"`
	UploadAt       string `json:"upload_at"`
	Thumbnail      string `json:"thumbnail"`
	MediaURL       string `json:"media_url"`
	UploaderAvatar string `json:"uploader_avatar"`
	Username       string `json:"username"`
}

// RedisCatalogCache implements CatalogCache using Redis as the backing store.
type RedisCatalogCache struct {
	client *redis.Client
}

// NewRedisCatalogCache creates a new Redis-backed catalog cache.
func NewRedisCatalogCache(client *redis.Client) *RedisCatalogCache {
	return &RedisCatalogCache{
		client: client,
	}
}

// Get retrieves the catalog from Redis.
// Returns nil, nil on cache miss.
func (c *RedisCatalogCache) Get(ctx context.Context) ([]*model.Video, error) {
	data, err := c.client.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			record(metrics.CacheOpGet, metrics.CacheStatusMiss)
			return nil, nil
		}
		record(metrics.CacheOpGet, metrics.CacheStatusError)
		return nil, fmt.Errorf("redis get: %w", err)
	}

	videos, err := c.deserialize(data)
	if err != nil {
		record(metrics.CacheOpGet, metrics.CacheStatusError)
		return nil, fmt.Errorf("deserialize catalog: %w", err)
	}

	record(metrics.CacheOpGet, metrics.CacheStatusHit)
	return videos, nil
}

// Set stores the catalog in Redis with the specified TTL.
func (c *RedisCatalogCache) Set(ctx context.Context, videos []*model.Video, ttl time.Duration) error {
	data, err := c.serialize(videos)
	if err != nil {
		record(metrics.CacheOpSet, metrics.CacheStatusError)
		return fmt.Errorf("serialize catalog: %w", err)
	}

	if err := c.client.Set(ctx, catalogCacheKey, data, ttl).Err(); err != nil {
		record(metrics.CacheOpSet, metrics.CacheStatusError)
		return fmt.Errorf("redis set: %w", err)
	}

	record(metrics.CacheOpSet, metrics.CacheStatusSuccess)
	return nil
}

// Delete removes the catalog from Redis.
func (c *RedisCatalogCache) Delete(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogCacheKey).Err(); err != nil {
		record(metrics.CacheOpDelete, metrics.CacheStatusError)
		return fmt.Errorf("redis del: %w", err)
	}

	record(metrics.CacheOpDelete, metrics.CacheStatusSuccess)
	return nil
}

func record(op, status string) {
	metrics.CacheOperationsTotal.WithLabelValues(op, status, metrics.CacheTypeRedis).Inc()
}

// serialize converts the catalog to JSON bytes.
// An empty catalog serializes to "[]" so it is cached like any other result.
func (c *RedisCatalogCache) serialize(videos []*model.Video) ([]byte, error) {
	out := make([]videoJSON, 0, len(videos))
	for _, v := range videos {
		out = append(out, videoJSON{
			ID:             v.ID,
			Title:          v.Title,
			Description:    v.Description,
			Views:          v.Views,
			UploadAt:       v.UploadAt.Format(time.RFC3339Nano),
			Thumbnail:      v.Thumbnail,
			MediaURL:       v.MediaURL,
			UploaderAvatar: v.UploaderAvatar,
			Username:       v.Uploader.Username,
		})
	}
	return json.Marshal(out)
}

// deserialize converts JSON bytes to the catalog.
func (c *RedisCatalogCache) deserialize(data []byte) ([]*model.Video, error) {
	var in []videoJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}

	videos := make([]*model.Video, 0, len(in))
	for _, v := range in {
		uploadAt, err := time.Parse(time.RFC3339Nano, v.UploadAt)
		if err != nil {
			return nil, fmt.Errorf("parse upload_at for %s: %w", v.ID, err)
		}

		videos = append(videos, &model.Video{
			ID:             v.ID,
			Title:          v.Title,
			Description:    v.Description,
			Views:          v.Views,
			UploadAt:       uploadAt,
			Thumbnail:      v.Thumbnail,
			MediaURL:       v.MediaURL,
			UploaderAvatar: v.UploaderAvatar,
			Uploader:       model.Uploader{Username: v.Username},
		})
	}

	return videos, nil
}

// Compile-time verification that RedisCatalogCache implements CatalogCache.
var _ CatalogCache = (*RedisCatalogCache)(nil)
