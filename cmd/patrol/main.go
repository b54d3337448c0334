package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"patrol/config"
	"patrol/internal/delivery"
	"patrol/internal/delivery/http"
	"patrol/internal/delivery/http/middleware"
	"patrol/internal/delivery/http/router/handler"
	"patrol/internal/domain/service"
	"patrol/internal/infra/auth"
	"patrol/internal/infra/location"
	logs "patrol/internal/infra/log"
	"patrol/internal/infra/notification"
	"patrol/internal/infra/persistence/postgres"
	"patrol/internal/infra/pubsub"
	"patrol/internal/infra/qrcode"
	"patrol/internal/usecase"
	"patrol/internal/usecase/impl"

	"go.uber.org/fx"
)

const defaultSweepInterval = 30 * time.Second

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
			startStaleSweeper,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
		),
		notification.Module,
		pubsub.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewAuthRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewCheckpointRepository,
			postgres.NewScanRepository,
			postgres.NewGuardLocationRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			newQRCodeService,
			// Positions arrive inside requests; the server never acquires its own.
			location.NewUnavailableSource,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewScanService,
			impl.NewCheckpointService,
			impl.NewAccountService,
			impl.NewTelemetryService,
			impl.NewDashboardService,
			impl.NewExportService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewScanHandler,
			handler.NewCheckpointHandler,
			handler.NewTelemetryHandler,
			handler.NewDashboardHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}

type sweeperParams struct {
	fx.In
	fx.Lifecycle

	Config      *config.Config
	Logger      *slog.Logger
	TelemetryUC usecase.TelemetryUsecase
}

// startStaleSweeper runs the background loop that flips stale guard rows to
// offline. It ticks at the telemetry report cadence.
func startStaleSweeper(params sweeperParams) {
	interval := defaultSweepInterval
	if params.Config.Patrol != nil && params.Config.Patrol.ReportInterval > 0 {
		interval = params.Config.Patrol.ReportInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						flipped, err := params.TelemetryUC.SweepStale(ctx)
						if err != nil {
							params.Logger.Warn("stale sweep failed", slog.Any("error", err))

							continue
						}
						if flipped > 0 {
							params.Logger.Info("stale guards marked offline", slog.Int64("count", flipped))
						}
					}
				}
			}()

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()

			return nil
		},
	})
}
