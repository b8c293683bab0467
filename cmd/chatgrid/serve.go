package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/chatgridhq/chatgrid/internal/channel"
	"github.com/chatgridhq/chatgrid/internal/config"
	"github.com/chatgridhq/chatgrid/internal/conversation"
	"github.com/chatgridhq/chatgrid/internal/db"
	dbsqlc "github.com/chatgridhq/chatgrid/internal/db/sqlc"
	"github.com/chatgridhq/chatgrid/internal/handlers"
	"github.com/chatgridhq/chatgrid/internal/logger"
	"github.com/chatgridhq/chatgrid/internal/message"
	"github.com/chatgridhq/chatgrid/internal/server"
	"github.com/chatgridhq/chatgrid/internal/storage"
	"github.com/chatgridhq/chatgrid/internal/storage/providers/localfs"
	"github.com/chatgridhq/chatgrid/internal/template"
	"github.com/chatgridhq/chatgrid/internal/version"
	"github.com/chatgridhq/chatgrid/internal/webhook"
	"github.com/chatgridhq/chatgrid/internal/whatsapp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideDBConn,
			provideDBQueries,
			provideBlobStore,
			provideMediaClient,
			channel.NewService,
			conversation.NewService,
			message.NewService,
			template.NewService,
			provideFetcher,
			provideProcessor,
			provideReconciler,
			provideWebhookHandler,
			handlers.NewPingHandler,
			provideMediaHandler,
			provideServer,
		),
		fx.Invoke(
			startFetcher,
			startReconciler,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { conn.Close(); return nil }})
	return conn, nil
}

func provideDBQueries(conn *pgxpool.Pool) *dbsqlc.Queries { return dbsqlc.New(conn) }

func provideBlobStore(cfg config.Config) (storage.Provider, error) {
	return localfs.New(cfg.Storage.DataRoot)
}

func provideMediaClient(cfg config.Config) webhook.MediaClient {
	return whatsapp.NewClient(cfg.WhatsApp)
}

func provideFetcher(log *slog.Logger, client webhook.MediaClient, blobs storage.Provider, messages *message.Service, cfg config.Config) *webhook.Fetcher {
	return webhook.NewFetcher(log, client, blobs, messages, cfg.WhatsApp.MediaFetchWorkers, cfg.WhatsApp.MediaQueueSize)
}

func provideProcessor(
	log *slog.Logger,
	channels *channel.Service,
	conversations *conversation.Service,
	messages *message.Service,
	templates *template.Service,
	fetcher *webhook.Fetcher,
	cfg config.Config,
) *webhook.Processor {
	return webhook.NewProcessor(log, channels, conversations, messages, templates, fetcher,
		time.Duration(cfg.WhatsApp.EchoMatchWindowSeconds)*time.Second)
}

func provideReconciler(log *slog.Logger, messages *message.Service, channels *channel.Service, fetcher *webhook.Fetcher, cfg config.Config) *webhook.MediaReconciler {
	return webhook.NewMediaReconciler(log, messages, channels, fetcher, cfg.WhatsApp.MediaMaxAttempts)
}

func provideWebhookHandler(log *slog.Logger, processor *webhook.Processor, cfg config.Config) *handlers.WebhookHandler {
	return handlers.NewWebhookHandler(log, processor, cfg.WhatsApp.VerifyToken, cfg.WhatsApp.AppSecret)
}

func provideMediaHandler(log *slog.Logger, blobs storage.Provider) *handlers.MediaHandler {
	return handlers.NewMediaHandler(log, blobs)
}

func provideServer(cfg config.Config, pingHandler *handlers.PingHandler, webhookHandler *handlers.WebhookHandler, mediaHandler *handlers.MediaHandler) *server.Server {
	return server.NewServer(cfg.Server.Addr, pingHandler, webhookHandler, mediaHandler)
}

func startFetcher(lc fx.Lifecycle, fetcher *webhook.Fetcher) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error { fetcher.Start(ctx); return nil },
		OnStop:  func(_ context.Context) error { cancel(); return nil },
	})
}

func startReconciler(lc fx.Lifecycle, logger *slog.Logger, reconciler *webhook.MediaReconciler, cfg config.Config) error {
	runner := cron.New()
	ctx, cancel := context.WithCancel(context.Background())
	_, err := runner.AddFunc(cfg.WhatsApp.MediaReconcileSchedule, func() {
		reconciler.Run(ctx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("schedule media reconciler: %w", err)
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			runner.Start()
			logger.Info("media reconciler scheduled", slog.String("schedule", cfg.WhatsApp.MediaReconcileSchedule))
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-runner.Stop().Done():
			case <-stopCtx.Done():
			}
			return nil
		},
	})
	return nil
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting ChatGrid %s\n", version.GetInfo())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
