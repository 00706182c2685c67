// Package gazetteer resolves scraped city names to coordinates using a
// table compiled into the binary. The source page carries no positions,
// and geocoding services are deliberately out of scope, so the exporter
// joins against this fixed table instead. Cities absent from the table
// are excluded from the export, never guessed.
package gazetteer

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

//go:embed coordinates.csv
var coordinatesCSV []byte

// Coordinates is a WGS-84 position.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Gazetteer is an in-memory (country, city) → coordinates index.
type Gazetteer struct {
	byKey map[string]Coordinates
}

// Load parses the embedded coordinates table. The table has a header
// row and country,city,lat,lng columns; the first entry wins when a
// key repeats.
func Load() (*Gazetteer, error) {
	return parse(coordinatesCSV)
}

func parse(data []byte) (*Gazetteer, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = 4

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("gazetteer: read table: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("gazetteer: table has no data rows")
	}

	g := &Gazetteer{byKey: make(map[string]Coordinates, len(rows)-1)}
	for i, row := range rows[1:] {
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		lng, errLng := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if errLat != nil || errLng != nil {
			return nil, fmt.Errorf("gazetteer: line %d: bad coordinates %q,%q", i+2, row[2], row[3])
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return nil, fmt.Errorf("gazetteer: line %d: coordinates out of range", i+2)
		}

		k := key(row[0], row[1])
		if _, exists := g.byKey[k]; exists {
			continue
		}
		g.byKey[k] = Coordinates{Lat: lat, Lng: lng}
	}
	return g, nil
}

// Lookup returns the coordinates for a (country, city) pair. Matching
// is case-insensitive and ignores surrounding whitespace.
func (g *Gazetteer) Lookup(country, city string) (Coordinates, bool) {
	c, ok := g.byKey[key(country, city)]
	return c, ok
}

// Len returns the number of distinct entries.
func (g *Gazetteer) Len() int {
	return len(g.byKey)
}

func key(country, city string) string {
	return strings.ToLower(strings.TrimSpace(country)) + "|" + strings.ToLower(strings.TrimSpace(city))
}
