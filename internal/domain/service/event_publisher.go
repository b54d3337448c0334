package service

import (
	"context"
	"time"
)

// LocationEvent is published on every guard telemetry tick. Downstream consumers
// (the live map feed, audit pipelines) subscribe to these instead of polling the store.
type LocationEvent struct {
	RequestID string    `json:"request_id,omitempty"` // For distributed tracing
	GuardID   string    `json:"guard_id"`
	GuardName string    `json:"guard_name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishLocationEvent publishes a guard position change for async consumers
	PublishLocationEvent(ctx context.Context, event *LocationEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
