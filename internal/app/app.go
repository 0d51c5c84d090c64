package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"logsaas-lite/internal/broker"
	kafka_impl "logsaas-lite/internal/broker/kafka"
	"logsaas-lite/internal/config"
	"logsaas-lite/internal/domain"
	file_h "logsaas-lite/internal/http-server/handler/file"
	system_h "logsaas-lite/internal/http-server/handler/system"
	"logsaas-lite/internal/http-server/router"
	minio_repo "logsaas-lite/internal/repository/file/cloud/minio"
	disk_repo "logsaas-lite/internal/repository/file/disk"
	"logsaas-lite/internal/repository/file/memory"
	file_uc "logsaas-lite/internal/usecase/file"

	"github.com/wb-go/wbf/zlog"
)

type fileStorage interface {
	Save(ctx context.Context, name string, data io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadSeekCloser, *domain.ObjectInfo, error)
}

type App struct {
	cfg       *config.Config
	server    *http.Server
	logger    *zlog.Zerolog
	publisher broker.Publisher
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	storage, err := newStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	var publisher broker.Publisher = broker.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = kafka_impl.NewProducerClient(cfg)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("Upload events enabled")
	}

	registry := memory.NewRegistry()

	fileUsecase := file_uc.NewFileUsecase(registry, storage, publisher, logger)

	h := &router.Handler{
		FileHandler:   file_h.NewFileHandler(fileUsecase, logger, cfg.Upload.MaxSize, cfg.IsDevelopment()),
		SystemHandler: system_h.NewSystemHandler(cfg.Version, cfg.Env),
	}

	mux := router.SetupRouter(h, router.Options{
		CORSOrigin: cfg.CORS.Origin,
		DevMode:    cfg.IsDevelopment(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:       cfg,
		server:    server,
		logger:    logger,
		publisher: publisher,
	}, nil
}

func newStorage(cfg *config.Config, logger *zlog.Zerolog) (fileStorage, error) {
	switch cfg.Storage.Driver {
	case "minio":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.StartupTimeout)
		defer cancel()

		repo, err := minio_repo.NewMinIORepository(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create minio storage: %w", err)
		}
		logger.Info().Str("endpoint", cfg.Minio.Endpoint).Str("bucket", cfg.Minio.Bucket).Msg("Using minio storage")
		return repo, nil
	default:
		repo, err := disk_repo.NewFileRepository(cfg.Upload.Dir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create disk storage: %w", err)
		}
		logger.Info().Str("dir", cfg.Upload.Dir).Msg("Using local disk storage")
		return repo, nil
	}
}

// Handler exposes the configured router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run() error {
	a.logger.Info().
		Str("addr", a.server.Addr).
		Str("environment", a.cfg.Env).
		Str("version", a.cfg.Version).
		Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		a.closePublisher()
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}

		a.closePublisher()

		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

func (a *App) closePublisher() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close event publisher")
	}
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
