// Package dataset loads and writes the exported city dataset: a JSON
// document with a cities key holding the records the renderer works
// from. A snapshot is compiled into the binary so the server can come
// up with no external data configured.
package dataset

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/city-temp-map/internal/domain"
)

//go:embed snapshot.json
var snapshotJSON []byte

// LoadStats reports what the loader kept and dropped.
type LoadStats struct {
	Total    int
	Kept     int
	NoCoords int
	Embedded bool
}

// Load reads a dataset from path, or falls back to the embedded
// snapshot when path is empty. Records without usable coordinates are
// dropped here so the render path never sees them; the stats carry the
// drop count for logging.
func Load(path string) (*domain.Dataset, LoadStats, error) {
	data := snapshotJSON
	stats := LoadStats{Embedded: true}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, LoadStats{}, fmt.Errorf("load dataset: %w", err)
		}
		data = b
		stats.Embedded = false
	}

	ds, stats2, err := Parse(data)
	if err != nil {
		return nil, LoadStats{}, err
	}
	stats2.Embedded = stats.Embedded
	return ds, stats2, nil
}

// Parse decodes dataset JSON and filters out records without
// coordinates.
func Parse(data []byte) (*domain.Dataset, LoadStats, error) {
	var ds domain.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, LoadStats{}, fmt.Errorf("parse dataset: %w", err)
	}

	stats := LoadStats{Total: len(ds.Cities)}
	kept := ds.Cities[:0]
	for _, rec := range ds.Cities {
		if !rec.HasCoordinates() {
			stats.NoCoords++
			continue
		}
		kept = append(kept, rec)
	}
	ds.Cities = kept
	stats.Kept = len(kept)

	return &ds, stats, nil
}

// Write marshals the dataset and writes it atomically: the JSON lands
// in a temp file first and is renamed into place, so a reader polling
// the path never sees a half-written document.
func Write(path string, ds *domain.Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("write dataset: marshal: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write dataset: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}
