// Command genmock generates a synthetic temperature dataset for local
// development: a fixed roster of real cities whose monthly means follow
// a seasonal curve derived from latitude. It writes the dataset JSON
// the map server loads and can also fill a SQLite database so the
// exporter and validator have rows to work against.
//
// Output is deterministic for a given -seed, and the generation clock
// is pinned so re-runs produce identical files.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/cities.json -db data/mock/temps.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/city-temp-map/internal/adapter/sqlite"
	"github.com/couchcryptid/city-temp-map/internal/dataset"
	"github.com/couchcryptid/city-temp-map/internal/domain"
)

// citySeed pins a mock city to real coordinates so the rendered field
// looks plausible on the map.
type citySeed struct {
	continent string
	country   string
	city      string
	lat       float64
	lng       float64
}

var seeds = []citySeed{
	{continent: "Africa", country: "Ghana", city: "Accra", lat: 5.56, lng: -0.19},
	{continent: "Africa", country: "Egypt", city: "Cairo", lat: 30.04, lng: 31.24},
	{continent: "Africa", country: "Nigeria", city: "Lagos", lat: 6.52, lng: 3.38},
	{continent: "Africa", country: "Kenya", city: "Nairobi", lat: -1.29, lng: 36.82},
	{continent: "Africa", country: "South Africa", city: "Johannesburg", lat: -26.20, lng: 28.05},
	{continent: "Africa", country: "Morocco", city: "Casablanca", lat: 33.57, lng: -7.59},
	{continent: "Africa", country: "Ethiopia", city: "Addis Ababa", lat: 9.01, lng: 38.75},
	{continent: "Africa", country: "Sudan", city: "Khartoum", lat: 15.50, lng: 32.56},
	{continent: "Asia", country: "Japan", city: "Tokyo", lat: 35.68, lng: 139.69},
	{continent: "Asia", country: "China", city: "Beijing", lat: 39.90, lng: 116.41},
	{continent: "Asia", country: "India", city: "Mumbai", lat: 19.08, lng: 72.88},
	{continent: "Asia", country: "Singapore", city: "Singapore", lat: 1.35, lng: 103.82},
	{continent: "Asia", country: "Thailand", city: "Bangkok", lat: 13.76, lng: 100.50},
	{continent: "Asia", country: "Russia", city: "Yakutsk", lat: 62.04, lng: 129.68},
	{continent: "Asia", country: "United Arab Emirates", city: "Dubai", lat: 25.20, lng: 55.27},
	{continent: "Asia", country: "South Korea", city: "Seoul", lat: 37.57, lng: 126.98},
	{continent: "Europe", country: "United Kingdom", city: "London", lat: 51.51, lng: -0.13},
	{continent: "Europe", country: "France", city: "Paris", lat: 48.86, lng: 2.35},
	{continent: "Europe", country: "Germany", city: "Berlin", lat: 52.52, lng: 13.40},
	{continent: "Europe", country: "Spain", city: "Madrid", lat: 40.42, lng: -3.70},
	{continent: "Europe", country: "Italy", city: "Rome", lat: 41.90, lng: 12.50},
	{continent: "Europe", country: "Iceland", city: "Reykjavík", lat: 64.15, lng: -21.94},
	{continent: "Europe", country: "Norway", city: "Oslo", lat: 59.91, lng: 10.75},
	{continent: "Europe", country: "Greece", city: "Athens", lat: 37.98, lng: 23.73},
	{continent: "North America", country: "United States", city: "New York", lat: 40.71, lng: -74.01},
	{continent: "North America", country: "United States", city: "Los Angeles", lat: 34.05, lng: -118.24},
	{continent: "North America", country: "Canada", city: "Toronto", lat: 43.65, lng: -79.38},
	{continent: "North America", country: "Canada", city: "Yellowknife", lat: 62.45, lng: -114.37},
	{continent: "North America", country: "Mexico", city: "Mexico City", lat: 19.43, lng: -99.13},
	{continent: "North America", country: "Cuba", city: "Havana", lat: 23.11, lng: -82.37},
	{continent: "North America", country: "Guatemala", city: "Guatemala City", lat: 14.63, lng: -90.51},
	{continent: "North America", country: "Panama", city: "Panama City", lat: 8.98, lng: -79.52},
	{continent: "Oceania", country: "Australia", city: "Sydney", lat: -33.87, lng: 151.21},
	{continent: "Oceania", country: "Australia", city: "Perth", lat: -31.95, lng: 115.86},
	{continent: "Oceania", country: "New Zealand", city: "Auckland", lat: -36.85, lng: 174.76},
	{continent: "Oceania", country: "New Zealand", city: "Wellington", lat: -41.29, lng: 174.78},
	{continent: "Oceania", country: "Fiji", city: "Suva", lat: -18.14, lng: 178.44},
	{continent: "Oceania", country: "Papua New Guinea", city: "Port Moresby", lat: -9.44, lng: 147.18},
	{continent: "South America", country: "Brazil", city: "São Paulo", lat: -23.55, lng: -46.63},
	{continent: "South America", country: "Brazil", city: "Manaus", lat: -3.12, lng: -60.02},
	{continent: "South America", country: "Argentina", city: "Buenos Aires", lat: -34.60, lng: -58.38},
	{continent: "South America", country: "Chile", city: "Santiago", lat: -33.45, lng: -70.67},
	{continent: "South America", country: "Peru", city: "Lima", lat: -12.05, lng: -77.04},
	{continent: "South America", country: "Colombia", city: "Bogotá", lat: 4.71, lng: -74.07},
	{continent: "South America", country: "Ecuador", city: "Quito", lat: -0.18, lng: -78.47},
	{continent: "South America", country: "Uruguay", city: "Montevideo", lat: -34.90, lng: -56.16},
}

func main() {
	out := flag.String("out", "data/mock/cities.json", "dataset JSON output path")
	dbPath := flag.String("db", "", "optional SQLite path to load with the generated rows")
	seed := flag.Int64("seed", 1, "random seed for the temperature jitter")
	flag.Parse()

	if err := run(*out, *dbPath, *seed); err != nil {
		log.Fatal(err)
	}
}

func run(out, dbPath string, seed int64) error {
	// Pin the clock so generated_at is stable across re-runs.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.July, 14, 9, 30, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rng := rand.New(rand.NewSource(seed))
	rows := make([]domain.TemperatureRow, 0, len(seeds))
	for _, s := range seeds {
		rows = append(rows, generateRow(s, rng))
	}

	if dbPath != "" {
		if err := loadStore(dbPath, rows); err != nil {
			return err
		}
	}

	ds := buildDataset(rows)
	if err := dataset.Write(out, ds); err != nil {
		return err
	}

	printStats(out, dbPath, rows)
	return nil
}

// generateRow synthesizes a year of monthly means for one seed city,
// rounded to a tenth of a degree like the source page publishes them.
func generateRow(s citySeed, rng *rand.Rand) domain.TemperatureRow {
	row := domain.TemperatureRow{
		Continent: s.continent,
		Country:   s.country,
		City:      s.city,
	}
	for m := 0; m < 12; m++ {
		// Occasionally drop a month, as the source page does.
		if rng.Float64() < 0.03 {
			continue
		}
		v := monthlyMean(s.lat, m+1) + (rng.Float64()*2-1)*1.2
		v = math.Round(v*10) / 10
		row.Months[m] = &v
	}
	if avg := domain.YearlyFromMonths(row.Months); avg != nil {
		y := math.Round(*avg*10) / 10
		row.YearlyAvg = &y
	}
	return row
}

// monthlyMean models a smooth seasonal curve for a latitude: warm at
// the equator, colder toward the poles, with the swing growing away
// from the tropics. The curve peaks in July north of the equator and
// in January south of it. month is 1-based.
func monthlyMean(lat float64, month int) float64 {
	peak := 7.0
	if lat < 0 {
		peak = 1.0
	}
	base := 28 - 0.42*math.Abs(lat)
	swing := 2 + 0.30*math.Abs(lat)
	return base + swing*math.Cos(2*math.Pi*(float64(month)-peak)/12)
}

func loadStore(path string, rows []domain.TemperatureRow) error {
	db, err := sqlite.Open(path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer sqlite.Close(db) //nolint:errcheck // nothing left to do after the load

	if err := sqlite.Migrate(db); err != nil {
		return err
	}
	if _, err := sqlite.NewStore(db).ReplaceAll(context.Background(), rows); err != nil {
		return err
	}
	return nil
}

func buildDataset(rows []domain.TemperatureRow) *domain.Dataset {
	records := make([]domain.CityRecord, 0, len(rows))
	for i, row := range rows {
		records = append(records, row.Record(seeds[i].lat, seeds[i].lng))
	}
	return &domain.Dataset{GeneratedAt: domain.Now(), Cities: records}
}

func printStats(out, dbPath string, rows []domain.TemperatureRow) {
	byContinent := make(map[string]int)
	missing := 0
	var hot, cold *domain.TemperatureRow
	for i := range rows {
		byContinent[rows[i].Continent]++
		missing += 12 - rows[i].MonthCount()
		y := rows[i].YearlyAvg
		if y == nil {
			continue
		}
		if hot == nil || *y > *hot.YearlyAvg {
			hot = &rows[i]
		}
		if cold == nil || *y < *cold.YearlyAvg {
			cold = &rows[i]
		}
	}

	fmt.Printf("Generated %d cities:\n", len(rows))
	for _, c := range domain.Continents {
		fmt.Printf("  %-14s %3d\n", c, byContinent[c])
	}
	fmt.Printf("\nMissing monthly values: %d of %d\n", missing, len(rows)*12)
	if hot != nil && cold != nil {
		fmt.Printf("Hottest: %s, %s (%.1f °C yearly)\n", hot.City, hot.Country, *hot.YearlyAvg)
		fmt.Printf("Coldest: %s, %s (%.1f °C yearly)\n", cold.City, cold.Country, *cold.YearlyAvg)
	}

	fmt.Printf("\nWrote %s\n", out)
	if dbPath != "" {
		fmt.Printf("Loaded %d rows into %s\n", len(rows), dbPath)
	}
}
