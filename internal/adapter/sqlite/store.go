package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/city-temp-map/internal/domain"
)

//go:embed sql/delete-all.sql
var deleteAllSQL string

//go:embed sql/insert-continent.sql
var insertContinentSQL string

//go:embed sql/select-continent-id.sql
var selectContinentIDSQL string

//go:embed sql/insert-country.sql
var insertCountrySQL string

//go:embed sql/select-country-id.sql
var selectCountryIDSQL string

//go:embed sql/insert-city.sql
var insertCitySQL string

//go:embed sql/insert-temperatures.sql
var insertTemperaturesSQL string

//go:embed sql/select-rows.sql
var selectRowsSQL string

//go:embed sql/select-hottest.sql
var selectHottestSQL string

//go:embed sql/select-coldest.sql
var selectColdestSQL string

//go:embed sql/count-summary.sql
var countSummarySQL string

// Counts reports table cardinalities after a load.
type Counts struct {
	Continents int
	Countries  int
	Cities     int
}

// Store reads and writes temperature rows against the normalized
// schema. All methods are safe for concurrent use; writes run in a
// single transaction.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ReplaceAll replaces the database contents with the given rows in one
// transaction: a scrape run is the source of truth for everything in
// the store, so stale cities never linger. Returns the number of
// cities written.
func (s *Store) ReplaceAll(ctx context.Context, rows []domain.TemperatureRow) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("replace rows: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteAllSQL); err != nil {
		return 0, fmt.Errorf("replace rows: clear: %w", err)
	}

	continentIDs := make(map[string]int64)
	countryIDs := make(map[countryKey]int64)

	for _, row := range rows {
		continentID, err := continentID(ctx, tx, row.Continent, continentIDs)
		if err != nil {
			return 0, fmt.Errorf("replace rows: continent %q: %w", row.Continent, err)
		}

		countryID, err := countryID(ctx, tx, row.Country, continentID, countryIDs)
		if err != nil {
			return 0, fmt.Errorf("replace rows: country %q: %w", row.Country, err)
		}

		res, err := tx.ExecContext(ctx, insertCitySQL, row.City, countryID)
		if err != nil {
			return 0, fmt.Errorf("replace rows: city %q: %w", row.City, err)
		}
		cityID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("replace rows: city %q: %w", row.City, err)
		}

		args := make([]any, 0, 14)
		args = append(args, cityID)
		for _, m := range row.Months {
			args = append(args, nullable(m))
		}
		args = append(args, nullable(row.YearlyAvg))

		if _, err := tx.ExecContext(ctx, insertTemperaturesSQL, args...); err != nil {
			return 0, fmt.Errorf("replace rows: temperatures for %q: %w", row.City, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("replace rows: commit: %w", err)
	}
	return len(rows), nil
}

// Rows returns every stored row through the city view, ordered by
// continent, country and city.
func (s *Store) Rows(ctx context.Context) ([]domain.TemperatureRow, error) {
	rows, err := s.db.QueryContext(ctx, selectRowsSQL)
	if err != nil {
		return nil, fmt.Errorf("select rows: %w", err)
	}
	defer closeRows(rows, "city rows")

	var out []domain.TemperatureRow
	for rows.Next() {
		var (
			row    domain.TemperatureRow
			months [12]sql.NullFloat64
			yearly sql.NullFloat64
		)
		dest := make([]any, 0, 16)
		dest = append(dest, &row.Continent, &row.Country, &row.City)
		for i := range months {
			dest = append(dest, &months[i])
		}
		dest = append(dest, &yearly)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("select rows: scan: %w", err)
		}
		for i := range months {
			row.Months[i] = fromNull(months[i])
		}
		row.YearlyAvg = fromNull(yearly)
		out = append(out, row)
	}
	return out, rows.Err()
}

// Hottest returns the limit cities with the highest yearly average.
// Rows without a yearly average are skipped rather than sorted as
// extremes.
func (s *Store) Hottest(ctx context.Context, limit int) ([]domain.CitySummary, error) {
	return s.summaries(ctx, selectHottestSQL, limit)
}

// Coldest returns the limit cities with the lowest yearly average.
func (s *Store) Coldest(ctx context.Context, limit int) ([]domain.CitySummary, error) {
	return s.summaries(ctx, selectColdestSQL, limit)
}

func (s *Store) summaries(ctx context.Context, query string, limit int) ([]domain.CitySummary, error) {
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select summary: %w", err)
	}
	defer closeRows(rows, "summary")

	var out []domain.CitySummary
	for rows.Next() {
		var cs domain.CitySummary
		if err := rows.Scan(&cs.Continent, &cs.Country, &cs.City, &cs.YearlyAvg); err != nil {
			return nil, fmt.Errorf("select summary: scan: %w", err)
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// CountSummary reports how many continents, countries and cities the
// store holds.
func (s *Store) CountSummary(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx, countSummarySQL).Scan(&c.Continents, &c.Countries, &c.Cities)
	if err != nil {
		return Counts{}, fmt.Errorf("count summary: %w", err)
	}
	return c, nil
}

type countryKey struct {
	name        string
	continentID int64
}

func continentID(ctx context.Context, tx *sql.Tx, name string, cache map[string]int64) (int64, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}
	if _, err := tx.ExecContext(ctx, insertContinentSQL, name); err != nil {
		return 0, err
	}
	var id int64
	if err := tx.QueryRowContext(ctx, selectContinentIDSQL, name).Scan(&id); err != nil {
		return 0, err
	}
	cache[name] = id
	return id, nil
}

func countryID(ctx context.Context, tx *sql.Tx, name string, continentID int64, cache map[countryKey]int64) (int64, error) {
	key := countryKey{name: name, continentID: continentID}
	if id, ok := cache[key]; ok {
		return id, nil
	}
	if _, err := tx.ExecContext(ctx, insertCountrySQL, name, continentID); err != nil {
		return 0, err
	}
	var id int64
	if err := tx.QueryRowContext(ctx, selectCountryIDSQL, name, continentID).Scan(&id); err != nil {
		return 0, err
	}
	cache[key] = id
	return id, nil
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close rows", "what", what, "error", err)
	}
}

func nullable(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func fromNull(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
