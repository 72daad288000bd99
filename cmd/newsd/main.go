package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/couchcryptid/weather-news-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-news-service/internal/adapter/kafka"
	"github.com/couchcryptid/weather-news-service/internal/adapter/mapbox"
	"github.com/couchcryptid/weather-news-service/internal/config"
	"github.com/couchcryptid/weather-news-service/internal/dataset"
	"github.com/couchcryptid/weather-news-service/internal/digest"
	"github.com/couchcryptid/weather-news-service/internal/domain"
	"github.com/couchcryptid/weather-news-service/internal/news"
	"github.com/couchcryptid/weather-news-service/internal/observability"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	phrases, err := domain.LoadPhrasebook(cfg.PhrasebookPath)
	if err != nil {
		return err
	}
	narrator := domain.NewNarrator(phrases, domain.RandomChooser())

	// Place name: reverse-geocoded station when configured (feature-flagged via
	// MAPBOX_ENABLED / MAPBOX_TOKEN), otherwise PLACE_NAME.
	places := news.NewPlaceResolver(cfg.PlaceName)
	if cfg.MapboxEnabled && cfg.HasStation() {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		places.WithGeocoder(geocoder, *cfg.StationLat, *cfg.StationLon, logger)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled", "place", cfg.PlaceName)
	}

	var publisher news.Publisher
	if cfg.KafkaEnabled {
		p := kafkaadapter.NewPublisher(cfg, logger)
		defer func() {
			if err := p.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		publisher = p
		logger.Info("publishing articles", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaNewsTopic)
	}

	store := dataset.NewStore(nil)
	svc := news.NewService(store, narrator, places, publisher, metrics, logger)
	if err := loadInitialDataset(cfg, svc, metrics, logger); err != nil {
		return err
	}

	handler := httpadapter.NewHandler(svc, cfg.UploadMaxBytes, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, handler, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if cfg.DigestEnabled {
		runner := digest.New(svc, nil, cfg.DigestInterval, logger, metrics)
		g.Go(func() error { return runner.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func loadInitialDataset(cfg *config.Config, svc *news.Service, metrics *observability.Metrics, logger *slog.Logger) error {
	switch cfg.DataSource {
	case config.DataSourceFile:
		ds, err := dataset.LoadFile(cfg.DataFile, logger)
		if err != nil {
			metrics.DatasetLoads.WithLabelValues(config.DataSourceFile, "error").Inc()
			return fmt.Errorf("load %s: %w", cfg.DataFile, err)
		}
		svc.Activate(ds, config.DataSourceFile)
	default:
		svc.Activate(dataset.Synthetic(dataset.SyntheticOptions{
			Seed:  cfg.SyntheticSeed,
			Start: cfg.SyntheticStart,
			End:   cfg.SyntheticEnd,
		}), config.DataSourceSynthetic)
	}
	return nil
}
