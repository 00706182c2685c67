// Command export joins the scraped rows in SQLite with the embedded
// gazetteer and writes the dataset JSON the map server loads. It also
// prints the hottest and coldest city rankings.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/city-temp-map/internal/adapter/sqlite"
	"github.com/couchcryptid/city-temp-map/internal/config"
	"github.com/couchcryptid/city-temp-map/internal/domain"
	"github.com/couchcryptid/city-temp-map/internal/export"
	"github.com/couchcryptid/city-temp-map/internal/gazetteer"
	"github.com/couchcryptid/city-temp-map/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadExporter()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, "city-temp-export")

	if err := run(cfg, logger); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Exporter, logger *slog.Logger) error {
	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer sqlite.Close(db)

	if err := sqlite.Migrate(db); err != nil {
		return err
	}

	gaz, err := gazetteer.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exp := export.New(sqlite.NewStore(db), gaz, logger)
	res, err := exp.Run(ctx, cfg.OutputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d cities to %s (%d without coordinates skipped)\n",
		res.Exported, res.Path, res.Skipped)
	printRanking("hottest", res.Hottest)
	printRanking("coldest", res.Coldest)
	return nil
}

func printRanking(label string, cities []domain.CitySummary) {
	if len(cities) == 0 {
		return
	}
	fmt.Printf("\nTop %d %s cities by yearly average:\n", len(cities), label)
	for i, c := range cities {
		fmt.Printf("%3d. %-24s %-28s %6.1f °C\n",
			i+1, c.City, c.Country+" / "+c.Continent, c.YearlyAvg)
	}
}
