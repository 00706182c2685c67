package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/city-temp-map/internal/adapter/http"
	"github.com/couchcryptid/city-temp-map/internal/config"
	"github.com/couchcryptid/city-temp-map/internal/dataset"
	"github.com/couchcryptid/city-temp-map/internal/field"
	"github.com/couchcryptid/city-temp-map/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, "city-temp-server")
	metrics := observability.NewMetrics()

	ds, stats, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.DatasetPath, "error", err)
		os.Exit(1)
	}
	if stats.Embedded {
		logger.Info("serving the embedded dataset snapshot", "cities", ds.Len())
	} else {
		logger.Info("dataset loaded",
			"path", cfg.DatasetPath,
			"cities", ds.Len(),
			"dropped_without_coordinates", stats.NoCoords,
		)
	}

	renderer := field.NewRenderer()
	renderer.Step = cfg.RenderStep
	renderer.Alpha = uint8(cfg.RenderAlpha)

	var source field.ImageRenderer = renderer
	if cfg.RenderCache > 0 {
		source = field.NewCachedRenderer(renderer, cfg.RenderCache)
		logger.Info("render cache enabled", "entries", cfg.RenderCache)
	}

	srv := httpadapter.NewMapServer(cfg.HTTPAddr, ds, source, renderer.Gradient, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
