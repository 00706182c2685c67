// Package scrape orchestrates the fetch-parse-store pipeline that
// turns the source page into database rows.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/city-temp-map/internal/domain"
	"github.com/couchcryptid/city-temp-map/internal/observability"
)

// Source downloads the raw page HTML.
type Source interface {
	FetchPage(ctx context.Context) ([]byte, error)
}

// ParseFunc extracts temperature rows from page HTML.
type ParseFunc func(html []byte) ([]domain.TemperatureRow, error)

// RowStore persists a scrape run's rows, replacing the previous run.
type RowStore interface {
	ReplaceAll(ctx context.Context, rows []domain.TemperatureRow) (int, error)
}

// Publisher forwards rows to downstream consumers. Publishing is
// best-effort: the store is the source of truth.
type Publisher interface {
	PublishRows(ctx context.Context, rows []domain.TemperatureRow) error
}

// Result summarizes one completed scrape run.
type Result struct {
	Rows        int
	ByContinent map[string]int
	Duration    time.Duration
}

// Pipeline runs the fetch-parse-store cycle.
type Pipeline struct {
	source    Source
	parse     ParseFunc
	store     RowStore
	publisher Publisher // nil when publishing is disabled
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(source Source, parse ParseFunc, store RowStore, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:    source,
		parse:     parse,
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one scrape run has
// completed, or an error describing why the pipeline is not ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no scrape run has completed yet")
	}
	return nil
}

// Run executes one complete scrape: fetch the page, parse its tables,
// replace the store contents, and publish the rows when a publisher is
// configured.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	p.logger.Info("scrape started")

	html, err := p.source.FetchPage(ctx)
	if err != nil {
		return p.fail(fmt.Errorf("fetch: %w", err))
	}

	rows, err := p.parse(html)
	if err != nil {
		return p.fail(fmt.Errorf("parse: %w", err))
	}
	if len(rows) == 0 {
		return p.fail(errors.New("no rows extracted from page"))
	}

	stored, err := p.store.ReplaceAll(ctx, rows)
	if err != nil {
		return p.fail(fmt.Errorf("store: %w", err))
	}

	if p.publisher != nil {
		if err := p.publisher.PublishRows(ctx, rows); err != nil {
			// The store already has the rows; a broker outage must not
			// fail the run.
			p.logger.Warn("publish failed", "error", err, "rows", len(rows))
		} else {
			p.metrics.RowsPublished.Add(float64(len(rows)))
		}
	}

	res := Result{
		Rows:        stored,
		ByContinent: countByContinent(rows),
		Duration:    time.Since(start),
	}

	p.metrics.ScrapeRuns.Inc()
	p.metrics.RowsScraped.Set(float64(stored))
	p.metrics.ScrapeDuration.Observe(res.Duration.Seconds())
	p.ready.Store(true)

	p.logger.Info("scrape complete",
		"rows", res.Rows,
		"continents", len(res.ByContinent),
		"duration", res.Duration,
	)
	return res, nil
}

func (p *Pipeline) fail(err error) (Result, error) {
	p.metrics.ScrapeFailures.Inc()
	p.logger.Error("scrape failed", "error", err)
	return Result{}, err
}

func countByContinent(rows []domain.TemperatureRow) map[string]int {
	out := make(map[string]int)
	for _, r := range rows {
		out[r.Continent]++
	}
	return out
}
