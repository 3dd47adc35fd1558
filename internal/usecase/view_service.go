package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hszk-dev/vidshare/internal/domain/model"
	"github.com/hszk-dev/vidshare/internal/domain/repository"
	"github.com/hszk-dev/vidshare/internal/infrastructure/metrics"
)

const (
	// DefaultMaxRetries is the default number of delivery attempts before an event is dropped.
	DefaultMaxRetries = 3
)

// ViewServiceConfig holds configuration for ViewService.
type ViewServiceConfig struct {
	// MaxRetries is the retry count at which an event is dropped instead of applied.
	MaxRetries int
}

// DefaultViewServiceConfig returns the default configuration.
func DefaultViewServiceConfig() ViewServiceConfig {
	return ViewServiceConfig{
		MaxRetries: DefaultMaxRetries,
	}
}

// ViewService applies queued view events to the catalog.
type ViewService interface {
	// ProcessEvent handles a view event from the message queue.
	// Returns nil when the event is applied or permanently dropped.
	// Returns error for transient failures that should trigger a retry.
	ProcessEvent(ctx context.Context, event repository.ViewEvent) error
}

type viewService struct {
	repo       repository.VideoRepository
	maxRetries int
}

// NewViewService creates a new ViewService instance.
func NewViewService(repo repository.VideoRepository, cfg ViewServiceConfig) ViewService {
	return &viewService{
		repo:       repo,
		maxRetries: cfg.MaxRetries,
	}
}

func (s *viewService) ProcessEvent(ctx context.Context, event repository.ViewEvent) error {
	logger := slog.With("event_id", event.EventID, "video_id", event.VideoID, "retry_count", event.RetryCount)

	if event.RetryCount >= s.maxRetries {
		logger.Error("dropping view event after max retries")
		metrics.ViewEventsTotal.WithLabelValues(metrics.ViewStageDropped).Inc()
		return nil
	}

	if err := model.ValidateVideoID(event.VideoID); err != nil {
		logger.Warn("dropping invalid view event", "error", err)
		metrics.ViewEventsTotal.WithLabelValues(metrics.ViewStageDropped).Inc()
		return nil
	}

	err := s.repo.IncrementViews(ctx, event.VideoID, 1)
	switch {
	case errors.Is(err, repository.ErrVideoNotFound):
		logger.Warn("dropping view event for unknown video")
		metrics.ViewEventsTotal.WithLabelValues(metrics.ViewStageDropped).Inc()
		return nil
	case err != nil:
		metrics.ViewEventsTotal.WithLabelValues(metrics.ViewStageFailed).Inc()
		return fmt.Errorf("increment views: %w", err)
	}

	metrics.ViewEventsTotal.WithLabelValues(metrics.ViewStageApplied).Inc()
	return nil
}
