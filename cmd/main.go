package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"device-inspector/config"
	"device-inspector/internal/api/rest"
	"device-inspector/internal/api/rpc"
	"device-inspector/internal/api/telegram"
	app "device-inspector/internal/application"
	"device-inspector/internal/container"
	"device-inspector/internal/domain/port"
	"device-inspector/internal/infrastructure/inference"
	"device-inspector/internal/infrastructure/monitor"
	"device-inspector/internal/infrastructure/storage"
	"device-inspector/internal/infrastructure/vision"
	"device-inspector/internal/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	sampleInterval  = 5 * time.Second
	initMinWait     = time.Second
	initMaxWait     = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogMode); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Log().Fatal("service stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	lg := logger.Log()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	table, err := config.LoadProductTable(cfg.ProductsFile)
	if err != nil {
		return err
	}
	lg.Info("product table loaded", zap.Int("products", len(table)))

	// Модели могут подняться позже: до этого анализ отвечает 503
	models := inference.New(inference.Options{
		BaseURL:      cfg.InferenceURL,
		Timeout:      cfg.InferenceTimeout,
		DetectorConf: cfg.DetectorConf,
		Logger:       lg,
	})
	defer models.Shutdown()

	results, closeStore, err := openResults(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	metrics := monitor.NewMetrics()
	cropper := vision.NewCropper()

	opts := []app.Option{
		app.WithLogger(lg),
		app.WithObserver(metrics),
		app.WithProber(cropper),
		app.WithWorkers(cfg.BatchWorkers),
	}
	if cfg.Annotate {
		opts = append(opts, app.WithAnnotator(vision.NewAnnotator()))
	}

	c := container.New(
		table,
		container.Models{Detector: models, Buttons: models, Languages: models, Cropper: cropper},
		results,
		storage.NewMemoryOperatorRepository(),
		opts...,
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := models.InitWithRetry(ctx, initMinWait, initMaxWait)
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})

	restOpts := rest.Options{Logger: lg}
	if cfg.MetricsEnabled {
		restOpts.Metrics = metrics.Handler()
		sampler, err := monitor.NewSampler(metrics, lg)
		if err != nil {
			lg.Warn("process sampler disabled", zap.Error(err))
		} else {
			g.Go(func() error {
				sampler.Run(ctx, sampleInterval)
				return nil
			})
		}
	}

	httpServer := rest.NewServer(c.InspectionService, models, restOpts)
	g.Go(func() error {
		return httpServer.ListenAndServe(cfg.HTTPPort)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.GRPCPort > 0 {
		grpcServer := rpc.NewServer(c.InspectionService, rpc.Options{Logger: lg, Observer: metrics})
		g.Go(func() error {
			return grpcServer.ListenAndServe(cfg.GRPCPort)
		})
		g.Go(func() error {
			<-ctx.Done()
			grpcServer.GracefulStop()
			return nil
		})
	}

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, c.InspectionService, c.OperatorService, lg)
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			return bot.Run(ctx)
		})
	} else {
		lg.Info("telegram token is empty, bot disabled")
	}

	lg.Info("device inspector started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.String("storage", cfg.Storage),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	lg.Info("device inspector stopped")
	return nil
}

// openResults открывает хранилище результатов по конфигурации
func openResults(ctx context.Context, cfg *config.Config) (port.VerdictRepository, func(), error) {
	if cfg.Storage != config.StorageMySQL {
		return storage.NewMemoryVerdictRepository(), func() {}, nil
	}

	db, err := storage.OpenMySQL(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	repo := storage.NewMySQLVerdictRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logger.Log().Info("mysql storage ready")
	return repo, func() { _ = db.Close() }, nil
}
