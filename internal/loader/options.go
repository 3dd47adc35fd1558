package loader

import (
	"log/slog"
	"time"
)

const defaultIncrementTimeout = 5 * time.Second

type options struct {
	logger           *slog.Logger
	now              func() time.Time
	incrementTimeout time.Duration
}

// Option configures a loader.
type Option func(*options)

// WithLogger sets the logger fetch failures are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock sets the time source used for relative ages.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIncrementTimeout bounds the background view-count request.
func WithIncrementTimeout(d time.Duration) Option {
	return func(o *options) {
		o.incrementTimeout = d
	}
}

func applyOptions(opts []Option) options {
	o := options{
		logger:           slog.Default(),
		now:              time.Now,
		incrementTimeout: defaultIncrementTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
