// Command validate performs integrity checks on an exported city
// dataset: document shape, per-record field rules, continental
// coverage, and, when a database is given, parity between every
// dataset record and the stored row it was exported from.
//
// Usage:
//
//	go run ./cmd/validate -dataset data/cities.json -db data/temps.db
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/city-temp-map/internal/adapter/sqlite"
	"github.com/couchcryptid/city-temp-map/internal/dataset"
	"github.com/couchcryptid/city-temp-map/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	datasetPath := flag.String("dataset", "", "path to the exported dataset JSON")
	dbPath := flag.String("db", "", "optional SQLite database to cross-reference against")
	flag.Parse()

	if *datasetPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*datasetPath, *dbPath); code != 0 {
		os.Exit(code)
	}
}

func run(datasetPath, dbPath string) int {
	// ── Load inputs ──
	fmt.Println("=== City Dataset Integrity Validation ===")
	fmt.Println()

	ds, stats, err := dataset.Load(datasetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}
	if stats.NoCoords > 0 {
		fmt.Printf("  Note: %d record(s) without coordinates dropped at load\n", stats.NoCoords)
	}

	var storeRows []domain.TemperatureRow
	if dbPath != "" {
		storeRows, err = loadStoreRows(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load store rows: %v\n", err)
			return 1
		}
	} else {
		fmt.Println("  Note: store parity skipped (-db not set)")
	}

	// ── Run validation phases ──
	phases := []*phase{
		validateShape(ds),
		validateRecords(ds),
		validateCoverage(ds),
	}
	if dbPath != "" {
		phases = append(phases, validateStoreParity(ds, storeRows))
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d dataset cities, %d store rows\n", ds.Len(), len(storeRows))

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadStoreRows(path string) ([]domain.TemperatureRow, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	defer sqlite.Close(db) //nolint:errcheck // read-only session
	if err := sqlite.Migrate(db); err != nil {
		return nil, err
	}
	return sqlite.NewStore(db).Rows(context.Background())
}

// ── Phase 1: Document Shape ──
// Validates the dataset document: generation stamp, non-empty cities,
// no duplicate identities, known continent labels.

func validateShape(ds *domain.Dataset) *phase {
	p := &phase{name: "Phase 1: Document Shape"}

	if ds.GeneratedAt.IsZero() {
		p.errorf("generated_at is zero")
	}
	if ds.Len() == 0 {
		p.errorf("dataset holds no cities")
	}

	known := make(map[string]bool, len(domain.Continents))
	for _, c := range domain.Continents {
		known[c] = true
	}

	seen := map[string]string{}
	for i, rec := range ds.Cities {
		if !known[rec.Continent] {
			p.errorf("record %d (%s): unknown continent %q", i, rec.City, rec.Continent)
		}
		id := rec.ID()
		if prev, ok := seen[id]; ok {
			p.errorf("record %d: %s, %s duplicates %s", i, rec.City, rec.Country, prev)
			continue
		}
		seen[id] = fmt.Sprintf("%s, %s", rec.City, rec.Country)
	}
	return p
}

// ── Phase 2: Record Integrity ──
// Runs the field rules over every record and checks that a stated
// yearly average agrees with the monthly values it summarizes.

func validateRecords(ds *domain.Dataset) *phase {
	p := &phase{name: "Phase 2: Record Integrity"}

	for _, err := range dataset.ValidateAll(ds) {
		p.errorf("%v", err)
	}

	for i, rec := range ds.Cities {
		var sum float64
		n := 0
		for _, m := range rec.MonthValues() {
			if m != nil {
				sum += *m
				n++
			}
		}
		if n == 0 && rec.YearlyAvg == nil {
			p.errorf("record %d (%s, %s): no temperature values at all", i, rec.City, rec.Country)
			continue
		}
		if n == 12 && rec.YearlyAvg != nil {
			mean := sum / 12
			if math.Abs(*rec.YearlyAvg-mean) > 1.0 {
				p.errorf("record %d (%s, %s): yearly %.1f disagrees with monthly mean %.1f",
					i, rec.City, rec.Country, *rec.YearlyAvg, mean)
			}
		}
	}
	return p
}

// ── Phase 3: Continental Coverage ──
// Every continent table on the source page should contribute cities,
// and most monthly cells should carry values.

func validateCoverage(ds *domain.Dataset) *phase {
	p := &phase{name: "Phase 3: Continental Coverage"}

	byContinent := map[string]int{}
	for _, rec := range ds.Cities {
		byContinent[rec.Continent]++
	}
	for _, c := range domain.Continents {
		if byContinent[c] == 0 {
			p.errorf("continent %q has no cities", c)
		}
	}

	present, total := 0, 0
	for _, rec := range ds.Cities {
		for _, m := range rec.MonthValues() {
			total++
			if m != nil {
				present++
			}
		}
	}
	if total > 0 && present*2 < total {
		p.errorf("only %d of %d monthly values present", present, total)
	}
	return p
}

// ── Phase 4: Store Parity (SQLite) ──
// Every dataset record must match the stored row it was exported from:
// same identity, same monthly values, same yearly average. The dataset
// is a subset of the store; rows without a gazetteer entry never make
// it into the export.

func validateStoreParity(ds *domain.Dataset, rows []domain.TemperatureRow) *phase {
	p := &phase{name: "Phase 4: Store Parity (SQLite)"}

	byID := make(map[string]domain.TemperatureRow, len(rows))
	for _, row := range rows {
		byID[row.ID()] = row
	}

	if ds.Len() > len(rows) {
		p.errorf("dataset has %d cities but the store holds only %d rows", ds.Len(), len(rows))
	}

	for i, rec := range ds.Cities {
		row, ok := byID[rec.ID()]
		if !ok {
			p.errorf("record %d (%s, %s): no matching store row", i, rec.City, rec.Country)
			continue
		}
		months := rec.MonthValues()
		for m := 0; m < 12; m++ {
			if !ptrFloatEq(months[m], row.Months[m]) {
				p.errorf("record %d (%s, %s): month %d: dataset %s, store %s",
					i, rec.City, rec.Country, m+1, ptrFloat(months[m]), ptrFloat(row.Months[m]))
			}
		}
		if !ptrFloatEq(rec.YearlyAvg, row.YearlyAvg) {
			p.errorf("record %d (%s, %s): yearly: dataset %s, store %s",
				i, rec.City, rec.Country, ptrFloat(rec.YearlyAvg), ptrFloat(row.YearlyAvg))
		}
	}
	return p
}

// ── Helpers ──

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func ptrFloatEq(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return floatEq(*a, *b)
}

func ptrFloat(p *float64) string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%.1f", *p)
}
