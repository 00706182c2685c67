// Package export turns stored temperature rows into the dataset file
// the map server loads. The source page carries no positions, so the
// exporter joins each row against the embedded gazetteer; rows it
// cannot place are dropped and counted, never given guessed
// coordinates.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/city-temp-map/internal/dataset"
	"github.com/couchcryptid/city-temp-map/internal/domain"
	"github.com/couchcryptid/city-temp-map/internal/gazetteer"
)

// summaryLimit is how many cities each extremes report lists.
const summaryLimit = 10

// Store is the relational source of an export run.
type Store interface {
	Rows(ctx context.Context) ([]domain.TemperatureRow, error)
	Hottest(ctx context.Context, limit int) ([]domain.CitySummary, error)
	Coldest(ctx context.Context, limit int) ([]domain.CitySummary, error)
}

// Result summarizes one export run.
type Result struct {
	Path     string
	Exported int
	Skipped  int
	Hottest  []domain.CitySummary
	Coldest  []domain.CitySummary
}

// Exporter builds the coordinate-joined dataset from the store.
type Exporter struct {
	store  Store
	gaz    *gazetteer.Gazetteer
	logger *slog.Logger
}

func New(store Store, gaz *gazetteer.Gazetteer, logger *slog.Logger) *Exporter {
	return &Exporter{store: store, gaz: gaz, logger: logger}
}

// Run reads every stored row, joins coordinates, writes the dataset to
// path, and gathers the hottest/coldest reports.
func (e *Exporter) Run(ctx context.Context, path string) (Result, error) {
	rows, err := e.store.Rows(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("export: read rows: %w", err)
	}
	if len(rows) == 0 {
		return Result{}, errors.New("export: store holds no rows; run a scrape first")
	}

	ds, skipped := e.Build(rows)
	if err := dataset.Write(path, ds); err != nil {
		return Result{}, fmt.Errorf("export: %w", err)
	}

	hottest, err := e.store.Hottest(ctx, summaryLimit)
	if err != nil {
		return Result{}, fmt.Errorf("export: hottest report: %w", err)
	}
	coldest, err := e.store.Coldest(ctx, summaryLimit)
	if err != nil {
		return Result{}, fmt.Errorf("export: coldest report: %w", err)
	}

	res := Result{
		Path:     path,
		Exported: ds.Len(),
		Skipped:  skipped,
		Hottest:  hottest,
		Coldest:  coldest,
	}
	e.logger.Info("dataset exported",
		"path", path,
		"cities", res.Exported,
		"skipped", res.Skipped,
	)
	return res, nil
}

// Build joins rows with the gazetteer into an ordered dataset, keeping
// the store's continent/country/city order. The int return counts rows
// the gazetteer could not place.
func (e *Exporter) Build(rows []domain.TemperatureRow) (*domain.Dataset, int) {
	cities := make([]domain.CityRecord, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		coord, ok := e.gaz.Lookup(row.Country, row.City)
		if !ok {
			skipped++
			e.logger.Debug("city has no gazetteer entry", "city", row.City, "country", row.Country)
			continue
		}
		cities = append(cities, row.Record(coord.Lat, coord.Lng))
	}
	if skipped > 0 {
		e.logger.Info("cities without coordinates excluded", "count", skipped)
	}
	return &domain.Dataset{GeneratedAt: domain.Now(), Cities: cities}, skipped
}
