package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/city-temp-map/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/city-temp-map/internal/adapter/kafka"
	"github.com/couchcryptid/city-temp-map/internal/adapter/sqlite"
	"github.com/couchcryptid/city-temp-map/internal/adapter/wikipedia"
	"github.com/couchcryptid/city-temp-map/internal/config"
	"github.com/couchcryptid/city-temp-map/internal/domain"
	"github.com/couchcryptid/city-temp-map/internal/observability"
	"github.com/couchcryptid/city-temp-map/internal/scrape"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadScraper()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, "city-temp-scraper")

	if err := run(cfg, logger); err != nil {
		logger.Error("scrape failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Scraper, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer sqlite.Close(db)

	if err := sqlite.Migrate(db); err != nil {
		return err
	}
	store := sqlite.NewStore(db)

	client := wikipedia.NewClient(cfg.PageURL, cfg.UserAgent, cfg.HTTPTimeout, logger)

	var publisher scrape.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		metrics.PublishEnabled.Set(1)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := scrape.New(client, wikipedia.Parse, store, publisher, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runErr error
	if cfg.Interval > 0 {
		runErr = runScheduled(ctx, cfg, p, logger)
	} else {
		runErr = runOnce(ctx, p, logger)
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	return runErr
}

// runOnce executes a single scrape and exits non-zero on failure, for
// cron-style invocation.
func runOnce(ctx context.Context, p *scrape.Pipeline, logger *slog.Logger) error {
	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	for _, continent := range domain.Continents {
		if n := res.ByContinent[continent]; n > 0 {
			logger.Info("continent scraped", "continent", continent, "rows", n)
		}
	}
	return nil
}

// runScheduled keeps the process alive, re-running the pipeline on the
// configured interval and serving health and metrics alongside.
func runScheduled(ctx context.Context, cfg *config.Scraper, p *scrape.Pipeline, logger *slog.Logger) error {
	sched := scrape.NewScheduler(p, cfg.Interval, logger)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	srv := httpadapter.NewOpsServer(cfg.HTTPAddr, p, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
