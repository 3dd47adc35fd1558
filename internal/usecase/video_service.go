package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/vidshare/internal/domain/model"
	"github.com/hszk-dev/vidshare/internal/domain/repository"
	"github.com/hszk-dev/vidshare/internal/infrastructure/metrics"
)

// VideoService defines the interface for catalog business logic operations.
type VideoService interface {
	// ListVideos returns the whole catalog, newest first.
	ListVideos(ctx context.Context) ([]*model.Video, error)

	// GetVideos returns detail records. An empty id returns the whole catalog;
	// otherwise the result holds the single matching video, or nothing.
	GetVideos(ctx context.Context, id string) ([]*model.Video, error)

	// RecordView queues a view-count increment for a video.
	// The counter is updated asynchronously by the worker.
	RecordView(ctx context.Context, id string) error
}

type videoService struct {
	repo  repository.VideoRepository
	queue repository.MessageQueue

	now func() time.Time
}

// NewVideoService creates a new VideoService instance.
func NewVideoService(repo repository.VideoRepository, queue repository.MessageQueue) VideoService {
	return &videoService{
		repo:  repo,
		queue: queue,
		now:   time.Now,
	}
}

func (s *videoService) ListVideos(ctx context.Context) ([]*model.Video, error) {
	return s.repo.List(ctx)
}

func (s *videoService) GetVideos(ctx context.Context, id string) ([]*model.Video, error) {
	if id == "" {
		return s.repo.List(ctx)
	}
	if err := model.ValidateVideoID(id); err != nil {
		return nil, err
	}

	video, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrVideoNotFound) {
		return []*model.Video{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []*model.Video{video}, nil
}

func (s *videoService) RecordView(ctx context.Context, id string) error {
	if err := model.ValidateVideoID(id); err != nil {
		return err
	}

	event := repository.ViewEvent{
		EventID:    uuid.NewString(),
		VideoID:    id,
		OccurredAt: s.now().UTC(),
	}

	if err := s.queue.PublishViewEvent(ctx, event); err != nil {
		metrics.ViewEventsTotal.WithLabelValues(metrics.ViewStageFailed).Inc()
		return fmt.Errorf("publish view event: %w", err)
	}

	metrics.ViewEventsTotal.WithLabelValues(metrics.ViewStagePublished).Inc()
	return nil
}
