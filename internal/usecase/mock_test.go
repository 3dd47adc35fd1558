package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hszk-dev/vidshare/internal/domain/model"
	"github.com/hszk-dev/vidshare/internal/domain/repository"
)

// mockVideoRepository provides a configurable mock for VideoRepository.
type mockVideoRepository struct {
	listFn           func(ctx context.Context) ([]*model.Video, error)
	getByIDFn        func(ctx context.Context, id string) (*model.Video, error)
	incrementViewsFn func(ctx context.Context, id string, delta int64) error
}

func (m *mockVideoRepository) List(ctx context.Context) ([]*model.Video, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*model.Video{}, nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoRepository) IncrementViews(ctx context.Context, id string, delta int64) error {
	if m.incrementViewsFn != nil {
		return m.incrementViewsFn(ctx, id, delta)
	}
	return nil
}

// mockAccountRepository provides a configurable mock for AccountRepository.
type mockAccountRepository struct {
	getProfileFn func(ctx context.Context, username string) (*model.Profile, error)
}

func (m *mockAccountRepository) GetProfile(ctx context.Context, username string) (*model.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, username)
	}
	return nil, repository.ErrAccountNotFound
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	generatePresignedDownloadURLFn func(ctx context.Context, key string, expiry time.Duration) (string, error)
	pingFn                         func(ctx context.Context) error
}

func (m *mockObjectStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedDownloadURLFn != nil {
		return m.generatePresignedDownloadURLFn(ctx, key, expiry)
	}
	return "http://example.com/media/" + key + "?sig=1", nil
}

func (m *mockObjectStorage) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// mockMessageQueue provides a configurable mock for MessageQueue.
type mockMessageQueue struct {
	publishViewEventFn  func(ctx context.Context, event repository.ViewEvent) error
	consumeViewEventsFn func(ctx context.Context, handler func(event repository.ViewEvent) error) error
}

func (m *mockMessageQueue) PublishViewEvent(ctx context.Context, event repository.ViewEvent) error {
	if m.publishViewEventFn != nil {
		return m.publishViewEventFn(ctx, event)
	}
	return nil
}

func (m *mockMessageQueue) ConsumeViewEvents(ctx context.Context, handler func(event repository.ViewEvent) error) error {
	if m.consumeViewEventsFn != nil {
		return m.consumeViewEventsFn(ctx, handler)
	}
	return nil
}

func (m *mockMessageQueue) Close() error {
	return nil
}

// mockVideoService is a mock implementation of VideoService for testing.
type mockVideoService struct {
	listVideosFn func(ctx context.Context) ([]*model.Video, error)
	getVideosFn  func(ctx context.Context, id string) ([]*model.Video, error)
	recordViewFn func(ctx context.Context, id string) error
	listCount    atomic.Int32
}

func (m *mockVideoService) ListVideos(ctx context.Context) ([]*model.Video, error) {
	m.listCount.Add(1)
	if m.listVideosFn != nil {
		return m.listVideosFn(ctx)
	}
	return []*model.Video{}, nil
}

func (m *mockVideoService) GetVideos(ctx context.Context, id string) ([]*model.Video, error) {
	if m.getVideosFn != nil {
		return m.getVideosFn(ctx, id)
	}
	return []*model.Video{}, nil
}

func (m *mockVideoService) RecordView(ctx context.Context, id string) error {
	if m.recordViewFn != nil {
		return m.recordViewFn(ctx, id)
	}
	return nil
}

// mockCatalogCache is an in-memory CatalogCache for testing.
type mockCatalogCache struct {
	mu       sync.RWMutex
	data     []*model.Video
	getFn    func(ctx context.Context) ([]*model.Video, error)
	setFn    func(ctx context.Context, videos []*model.Video, ttl time.Duration) error
	deleteFn func(ctx context.Context) error
}

func (m *mockCatalogCache) Get(ctx context.Context) ([]*model.Video, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data, nil
}

func (m *mockCatalogCache) Set(ctx context.Context, videos []*model.Video, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, videos, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if videos == nil {
		videos = []*model.Video{}
	}
	m.data = videos
	return nil
}

func (m *mockCatalogCache) Delete(ctx context.Context) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}
