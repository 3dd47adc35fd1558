package loader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hszk-dev/vidshare/internal/client"
	"github.com/hszk-dev/vidshare/internal/format"
)

// DetailSource provides the catalog with detail fields and the view counter.
type DetailSource interface {
	ListDetails(ctx context.Context) ([]client.VideoDetail, error)
	IncrementViews(ctx context.Context, videoID string) error
}

// DetailLoader resolves one video for the watch page.
//
// The catalog endpoint is scanned for the requested id; there is no
// single-video lookup on the consuming side.
type DetailLoader struct {
	src              DetailSource
	mount            *Mount
	logger           *slog.Logger
	incrementTimeout time.Duration

	mu       sync.RWMutex
	video    *client.VideoDetail
	expanded bool

	inflight sync.WaitGroup
}

// NewDetailLoader creates a DetailLoader bound to mount.
func NewDetailLoader(src DetailSource, mount *Mount, opts ...Option) *DetailLoader {
	o := applyOptions(opts)
	return &DetailLoader{
		src:              src,
		mount:            mount,
		logger:           o.logger,
		incrementTimeout: o.incrementTimeout,
	}
}

// Load resolves videoID. An empty id issues no request. Fetch failures and
// unknown ids leave the state unset and are only logged. When the video is
// resolved while mounted, a view increment is sent in the background.
func (l *DetailLoader) Load(ctx context.Context, videoID string) {
	if videoID == "" {
		return
	}

	records, err := l.src.ListDetails(ctx)
	if err != nil {
		l.logger.Warn("failed to load video", "video_id", videoID, "error", err)
		return
	}

	var match *client.VideoDetail
	for i := range records {
		if records[i].VideoID == videoID {
			match = &records[i]
			break
		}
	}
	if match == nil {
		l.logger.Info("video not in catalog", "video_id", videoID, "catalog_size", len(records))
		return
	}

	applied := l.mount.Apply(func() {
		l.mu.Lock()
		l.video = match
		l.expanded = false
		l.mu.Unlock()
	})
	if !applied {
		return
	}

	l.recordView(ctx, videoID)
}

// recordView fires the increment without blocking the caller.
// It outlives ctx cancellation but not incrementTimeout.
func (l *DetailLoader) recordView(ctx context.Context, videoID string) {
	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.incrementTimeout)
		defer cancel()

		if err := l.src.IncrementViews(ctx, videoID); err != nil {
			l.logger.Warn("failed to record view", "video_id", videoID, "error", err)
		}
	}()
}

// Wait blocks until background view increments have finished.
func (l *DetailLoader) Wait() {
	l.inflight.Wait()
}

// Video returns the resolved record; ok is false until one is loaded.
func (l *DetailLoader) Video() (v client.VideoDetail, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.video == nil {
		return client.VideoDetail{}, false
	}
	return *l.video, true
}

// CanExpand reports whether the description is long enough to toggle.
func (l *DetailLoader) CanExpand() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.video != nil && format.CanExpand(l.video.Description)
}

// Expanded reports the current description mode.
func (l *DetailLoader) Expanded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.expanded
}

// ToggleDescription switches between truncated and expanded modes.
// It is a no-op when the description cannot expand.
func (l *DetailLoader) ToggleDescription() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.video == nil || !format.CanExpand(l.video.Description) {
		return
	}
	l.expanded = !l.expanded
}

// Description returns the lines to show for the current mode.
func (l *DetailLoader) Description() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.video == nil {
		return nil
	}
	if l.expanded {
		return format.DescriptionLines(l.video.Description)
	}
	return []string{format.TruncateDescription(l.video.Description)}
}
