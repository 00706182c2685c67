// Package config populates per-binary settings from environment
// variables, applying defaults where unset.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server holds the map server settings.
type Server struct {
	HTTPAddr    string
	DatasetPath string
	RenderStep  int
	RenderAlpha int

	// RenderCache is the field raster cache size in entries. Zero
	// disables caching.
	RenderCache int

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Scraper holds the scrape pipeline settings.
type Scraper struct {
	// PageURL and UserAgent are empty unless overridden; the page
	// client falls back to its own defaults.
	PageURL     string
	UserAgent   string
	HTTPTimeout time.Duration
	SQLitePath  string

	// Interval between scheduled runs. Zero means run once and exit.
	Interval time.Duration

	// HTTPAddr is where interval mode exposes health and metrics.
	HTTPAddr string

	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	LogLevel  string
	LogFormat string
}

// Exporter holds the dataset exporter settings.
type Exporter struct {
	SQLitePath string
	OutputPath string
	LogLevel   string
	LogFormat  string
}

// LoadServer reads the map server configuration.
func LoadServer() (*Server, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg := &Server{
		HTTPAddr:        EnvOrDefault("HTTP_ADDR", ":8080"),
		DatasetPath:     os.Getenv("DATASET_PATH"),
		RenderStep:      envInt("RENDER_STEP", 8),
		RenderAlpha:     envInt("RENDER_ALPHA", 168),
		RenderCache:     envInt("RENDER_CACHE", 32),
		LogLevel:        EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.RenderStep <= 0 {
		return nil, errors.New("RENDER_STEP must be positive")
	}
	if cfg.RenderAlpha < 0 || cfg.RenderAlpha > 255 {
		return nil, errors.New("RENDER_ALPHA must be in 0-255")
	}
	if cfg.RenderCache < 0 {
		return nil, errors.New("RENDER_CACHE must not be negative")
	}

	return cfg, nil
}

// LoadScraper reads the scrape pipeline configuration.
func LoadScraper() (*Scraper, error) {
	httpTimeout, err := parseDurationEnv("HTTP_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	interval := time.Duration(0)
	if v := os.Getenv("SCRAPE_INTERVAL"); v != "" {
		interval, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SCRAPE_INTERVAL: %w", err)
		}
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Scraper{
		PageURL:      os.Getenv("PAGE_URL"),
		UserAgent:    os.Getenv("USER_AGENT"),
		HTTPTimeout:  httpTimeout,
		SQLitePath:   EnvOrDefault("SQLITE_PATH", "data/city_temperatures.db"),
		Interval:     interval,
		HTTPAddr:     EnvOrDefault("SCRAPER_HTTP_ADDR", ":8081"),
		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: ParseBrokers(EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   EnvOrDefault("KAFKA_TOPIC", "city-temperatures"),
		LogLevel:     EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:    EnvOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.HTTPTimeout <= 0 {
		return nil, errors.New("HTTP_TIMEOUT must be positive")
	}
	if cfg.Interval < 0 {
		return nil, errors.New("SCRAPE_INTERVAL must not be negative")
	}
	if cfg.SQLitePath == "" {
		return nil, errors.New("SQLITE_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is not set")
	}

	return cfg, nil
}

// LoadExporter reads the dataset exporter configuration.
func LoadExporter() (*Exporter, error) {
	cfg := &Exporter{
		SQLitePath: EnvOrDefault("SQLITE_PATH", "data/city_temperatures.db"),
		OutputPath: EnvOrDefault("EXPORT_PATH", "data/cities.json"),
		LogLevel:   EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:  EnvOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.SQLitePath == "" {
		return nil, errors.New("SQLITE_PATH is required")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("EXPORT_PATH is required")
	}

	return cfg, nil
}

// EnvOrDefault returns the environment value for key, or def when
// unset or empty.
func EnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBrokers splits a comma-separated broker list, dropping empty
// entries.
func ParseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
