package loader

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/hszk-dev/vidshare/internal/client"
	"github.com/hszk-dev/vidshare/internal/format"
)

// FeedSource lists the catalog summaries.
type FeedSource interface {
	ListAll(ctx context.Context) ([]client.VideoSummary, error)
}

// FeedItem is a display-ready grid entry.
type FeedItem struct {
	VideoID    string
	Title      string
	Channel    string
	Views      string
	UploadTime string
	Thumbnail  string
	Link       string
}

// FeedLoader populates the landing grid.
type FeedLoader struct {
	src    FeedSource
	mount  *Mount
	logger *slog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	items []FeedItem
}

// NewFeedLoader creates a FeedLoader bound to mount.
func NewFeedLoader(src FeedSource, mount *Mount, opts ...Option) *FeedLoader {
	o := applyOptions(opts)
	return &FeedLoader{
		src:    src,
		mount:  mount,
		logger: o.logger,
		now:    o.now,
		items:  []FeedItem{},
	}
}

// Load fetches the catalog and replaces the feed.
// Failures are logged and produce an empty feed. The returned slice is
// never nil; it is also what Items returns afterwards, unless the page
// was unmounted first.
func (l *FeedLoader) Load(ctx context.Context) []FeedItem {
	records, err := l.src.ListAll(ctx)
	if err != nil {
		l.logger.Warn("failed to load feed", "error", err)
		records = nil
	}

	now := l.now()
	items := make([]FeedItem, 0, len(records))
	for _, r := range records {
		items = append(items, NewFeedItem(r, now))
	}

	l.mount.Apply(func() {
		l.mu.Lock()
		l.items = items
		l.mu.Unlock()
	})
	return items
}

// Items returns the current feed.
func (l *FeedLoader) Items() []FeedItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.items
}

// VideoLink is the detail page path for a video.
func VideoLink(videoID string) string {
	return "/video?" + url.Values{"id": {videoID}}.Encode()
}

// NewFeedItem maps a catalog record for display, aging it relative to now.
func NewFeedItem(r client.VideoSummary, now time.Time) FeedItem {
	return FeedItem{
		VideoID:    r.VideoID,
		Title:      r.Title,
		Channel:    r.Account.Username,
		Views:      format.Views(r.Views),
		UploadTime: format.RelativeAge(r.UploadAt, now),
		Thumbnail:  r.Thumbnail,
		Link:       VideoLink(r.VideoID),
	}
}
