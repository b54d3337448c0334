package service

import (
	"context"
)

// NotificationService defines the interface for push notification services.
// Used to flag location-warning scans for admin review.
type NotificationService interface {
	// SendTopicNotification sends a push notification to every device subscribed
	// to the given topic.
	SendTopicNotification(ctx context.Context, topic, title, body string, data map[string]string) error

	// SendSingleNotification sends a push notification to a single device token.
	SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error
}
