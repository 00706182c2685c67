package wikipedia

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/city-temp-map/internal/domain"
)

// Parse extracts temperature rows from the page HTML. The page lays
// out one wikitable per continent in a fixed order; tables beyond the
// known continents are ignored, as are rows that do not look like data
// rows (headers, spanners, short rows).
func Parse(html []byte) ([]domain.TemperatureRow, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	tables := doc.Find("table.wikitable")
	if tables.Length() == 0 {
		return nil, errors.New("parse page: no wikitable found")
	}

	var rows []domain.TemperatureRow
	tables.EachWithBreak(func(i int, table *goquery.Selection) bool {
		if i >= len(domain.Continents) {
			return false
		}
		continent := domain.Continents[i]

		table.Find("tr").Each(func(j int, tr *goquery.Selection) {
			if j == 0 {
				return
			}
			row, err := domain.ParseRow(continent, cellTexts(tr))
			if err != nil {
				return
			}
			rows = append(rows, row)
		})
		return true
	})

	return rows, nil
}

func cellTexts(tr *goquery.Selection) []string {
	var cells []string
	tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, cell.Text())
	})
	return cells
}
