package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// footnoteRe matches Wikipedia footnote markers appended to cell text,
	// e.g. "12.3[4]" or "Kinshasa[a]".
	footnoteRe = regexp.MustCompile(`\[[^\]]*\]`)

	// parentheticalRe matches parenthesized content, which on this page is
	// the °F conversion of a °C value, e.g. "12.3 (54.1)".
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
)

// missingSentinels are the page's spellings of "no value".
var missingSentinels = map[string]bool{
	"":    true,
	"—":   true,
	"-":   true,
	"N/A": true,
	"n/a": true,
}

// minRowCells is country + city + twelve months. The Year column is
// optional; shorter rows are headers or colspan filler and are skipped.
const minRowCells = 14

// CleanCell normalizes raw wikitable cell text: strips footnote markers
// and parenthesized °F conversions, maps the Unicode minus (U+2212) to
// ASCII, and trims surrounding whitespace.
func CleanCell(s string) string {
	s = footnoteRe.ReplaceAllString(s, "")
	s = parentheticalRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "−", "-")
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(s)
}

// ParseTemperature parses a cleaned cell into °C. Missing-value
// sentinels and unparseable text return nil, never zero.
func ParseTemperature(s string) *float64 {
	s = strings.TrimSpace(s)
	if missingSentinels[s] {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseRow converts one raw table row into a TemperatureRow. Cells come
// in document order: country, city, Jan..Dec, then an optional Year
// column. Rows with fewer than 14 cells or without a country and city
// name are rejected.
func ParseRow(continent string, cells []string) (TemperatureRow, error) {
	if len(cells) < minRowCells {
		return TemperatureRow{}, fmt.Errorf("parse row: %d cells, need at least %d", len(cells), minRowCells)
	}

	country := CleanCell(cells[0])
	city := CleanCell(cells[1])
	if country == "" || city == "" {
		return TemperatureRow{}, fmt.Errorf("parse row: missing country or city name")
	}

	row := TemperatureRow{
		Continent: continent,
		Country:   country,
		City:      city,
	}
	for i := 0; i < 12; i++ {
		row.Months[i] = ParseTemperature(CleanCell(cells[2+i]))
	}

	if len(cells) > minRowCells {
		row.YearlyAvg = ParseTemperature(CleanCell(cells[minRowCells]))
	}
	if row.YearlyAvg == nil {
		row.YearlyAvg = YearlyFromMonths(row.Months)
	}

	return row, nil
}

// YearlyFromMonths returns the arithmetic mean of the present monthly
// values, or nil when every month is missing.
func YearlyFromMonths(months [12]*float64) *float64 {
	var sum float64
	var n int
	for _, m := range months {
		if m == nil {
			continue
		}
		sum += *m
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// RecordID produces a deterministic ID from a city's identifying fields.
// Deterministic IDs keep database upserts idempotent and Kafka message
// keys stable when the same city is scraped again.
func RecordID(continent, country, city string) string {
	input := strings.ToLower(fmt.Sprintf("%s|%s|%s",
		strings.TrimSpace(continent), strings.TrimSpace(country), strings.TrimSpace(city)))
	hash := sha256.Sum256([]byte(input))
	return "city-" + hex.EncodeToString(hash[:8])
}
