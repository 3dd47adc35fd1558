package repository

import (
	"context"
	"time"
)

// ViewEvent represents a single view-count increment message.
type ViewEvent struct {
	EventID    string    `json:"event_id"`
	VideoID    string    `json:"video_id"`
	OccurredAt time.Time `json:"occurred_at"`
	RetryCount int       `json:"retry_count"`
}

// MessageQueue defines the interface for message queue operations.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type MessageQueue interface {
	// PublishViewEvent sends a view increment to the queue.
	// Used by the API server so the request does not wait on the database write.
	PublishViewEvent(ctx context.Context, event ViewEvent) error

	// ConsumeViewEvents starts consuming view events from the queue.
	// The handler function is called for each received event.
	// Used by the worker service.
	ConsumeViewEvents(ctx context.Context, handler func(event ViewEvent) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
