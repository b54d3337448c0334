package notification

import (
	"context"
	"log/slog"

	"patrol/config"
	"patrol/internal/domain/service"

	"go.uber.org/fx"
)

// noopNotificationService swallows notifications when Firebase is not configured.
type noopNotificationService struct {
	logger *slog.Logger
}

func (s *noopNotificationService) SendTopicNotification(_ context.Context, topic, title, _ string, _ map[string]string) error {
	s.logger.Debug("[NoopNotification] Push disabled, skipping",
		slog.String("topic", topic),
		slog.String("title", title),
	)

	return nil
}

func (s *noopNotificationService) SendSingleNotification(_ context.Context, _, title, _ string, _ map[string]string) error {
	s.logger.Debug("[NoopNotification] Push disabled, skipping",
		slog.String("title", title),
	)

	return nil
}

// ServiceParams holds dependencies for NotificationService, injected by Fx
type ServiceParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewNotificationService creates a NotificationService based on configuration.
// Without Firebase credentials the no-op service is used and alerts are skipped.
func NewNotificationService(params ServiceParams) (service.NotificationService, error) {
	cfg := params.Config.Firebase
	if cfg == nil || cfg.CredentialsPath == "" {
		params.Logger.Info("Firebase not configured, using no-op notification service")

		return &noopNotificationService{logger: params.Logger}, nil
	}

	return NewFirebaseService(params.Ctx, cfg.CredentialsPath)
}

// Module provides the notification FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewNotificationService),
)
