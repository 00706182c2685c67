package wikipedia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/city-temp-map/internal/domain"
)

const monthHeader = `<tr>
<th>Country</th><th>City</th>
<th>Jan</th><th>Feb</th><th>Mar</th><th>Apr</th><th>May</th><th>Jun</th>
<th>Jul</th><th>Aug</th><th>Sep</th><th>Oct</th><th>Nov</th><th>Dec</th>
<th>Year</th>
</tr>`

// pageHTML mimics the source page: a lede table without the wikitable
// class, six continental wikitables in page order, then a trailing
// wikitable that is not a continent and must be ignored.
const pageHTML = `<html><body>
<table><tr><td>infobox, not a data table</td></tr></table>

<h2>Africa</h2>
<table class="wikitable sortable">` + monthHeader + `
<tr>
<td><a href="/wiki/Algeria">Algeria</a></td><td>Algiers</td>
<td>11.2 (52.2)</td><td>11.9 (53.4)</td><td>13.6 (56.5)</td><td>15.6 (60.1)</td>
<td>18.6 (65.5)</td><td>22.2 (72.0)</td><td>25.3 (77.5)</td><td>26.0 (78.8)</td>
<td>23.8 (74.8)</td><td>20.1 (68.2)</td><td>15.5 (59.9)</td><td>12.4 (54.3)</td>
<td>18.0 (64.4)</td>
</tr>
<tr>
<td>Ghana</td><td>Accra[2]</td>
<td>27.9&nbsp;(82.2)</td><td>28.8</td><td>28.8</td><td>28.7</td><td>27.9</td><td>—</td>
<td>25.5</td><td>25.1</td><td>25.9</td><td>26.8</td><td>27.9</td><td>28.0</td>
<td></td>
</tr>
<tr><td colspan="15">Source: climate normals</td></tr>
</table>

<h2>Asia</h2>
<table class="wikitable sortable">` + monthHeader + `
<tr>
<td>Mongolia</td><td>Ulaanbaatar</td>
<td>&minus;21.6</td><td>−16.6</td><td>−7.3</td><td>1.8</td><td>10.0</td><td>15.6</td>
<td>17.8</td><td>15.9</td><td>9.0</td><td>0.3</td><td>−11.0</td><td>−19.1</td>
</tr>
</table>

<h2>Europe</h2>
<table class="wikitable sortable">` + monthHeader + `
<tr>
<td>United Kingdom</td><td><a href="/wiki/London">London</a></td>
<td>5.2</td><td>5.3</td><td>7.6</td><td>9.9</td><td>13.3</td><td>16.5</td>
<td>18.7</td><td>18.5</td><td>15.7</td><td>12.0</td><td>8.0</td><td>5.5</td>
<td>11.3</td>
</tr>
</table>

<h2>North America</h2>
<table class="wikitable sortable">` + monthHeader + `
<tr>
<td>United States</td><td>New York City[1]</td>
<td>0.5</td><td>1.8</td><td>5.7</td><td>11.5</td><td>17.1</td><td>22.3</td>
<td>25.2</td><td>24.6</td><td>20.6</td><td>14.3</td><td>8.9</td><td>3.5</td>
<td>13.0</td>
</tr>
</table>

<h2>Oceania</h2>
<table class="wikitable sortable">` + monthHeader + `
<tr>
<td>Australia</td><td>Sydney</td>
<td>22.8</td><td>22.8</td><td>21.5</td><td>18.8</td><td>15.8</td><td>13.4</td>
<td>12.6</td><td>13.8</td><td>16.2</td><td>18.3</td><td>19.9</td><td>21.7</td>
<td>18.1</td>
</tr>
</table>

<h2>South America</h2>
<table class="wikitable sortable">` + monthHeader + `
<tr>
<td>Brazil</td><td>Rio de Janeiro</td>
<td>26.3</td><td>26.6</td><td>26.0</td><td>24.4</td><td>22.8</td><td>21.8</td>
<td>21.3</td><td>21.8</td><td>22.2</td><td>23.4</td><td>24.2</td><td>25.2</td>
<td>23.8</td>
</tr>
</table>

<h2>See also</h2>
<table class="wikitable">` + monthHeader + `
<tr>
<td>Antarctica</td><td>McMurdo Station</td>
<td>−3.0</td><td>−9.0</td><td>−18.0</td><td>−21.0</td><td>−21.0</td><td>−22.0</td>
<td>−25.0</td><td>−26.0</td><td>−25.0</td><td>−19.0</td><td>−9.0</td><td>−3.0</td>
<td>−16.8</td>
</tr>
</table>
</body></html>`

func parsedFixture(t *testing.T) []domain.TemperatureRow {
	t.Helper()
	rows, err := Parse([]byte(pageHTML))
	require.NoError(t, err)
	return rows
}

func findRow(t *testing.T, rows []domain.TemperatureRow, city string) domain.TemperatureRow {
	t.Helper()
	for _, r := range rows {
		if r.City == city {
			return r
		}
	}
	t.Fatalf("city %q not parsed", city)
	return domain.TemperatureRow{}
}

func TestParse_RowCount(t *testing.T) {
	rows := parsedFixture(t)
	require.Len(t, rows, 7)

	byContinent := map[string]int{}
	for _, r := range rows {
		byContinent[r.Continent]++
	}
	assert.Equal(t, map[string]int{
		"Africa":        2,
		"Asia":          1,
		"Europe":        1,
		"North America": 1,
		"Oceania":       1,
		"South America": 1,
	}, byContinent)
}

func TestParse_TableOrderAssignsContinents(t *testing.T) {
	rows := parsedFixture(t)

	assert.Equal(t, "Africa", findRow(t, rows, "Algiers").Continent)
	assert.Equal(t, "Asia", findRow(t, rows, "Ulaanbaatar").Continent)
	assert.Equal(t, "South America", findRow(t, rows, "Rio de Janeiro").Continent)
}

func TestParse_CleansCells(t *testing.T) {
	rows := parsedFixture(t)

	algiers := findRow(t, rows, "Algiers")
	require.NotNil(t, algiers.Months[0])
	assert.InDelta(t, 11.2, *algiers.Months[0], 1e-9, "°F conversion stripped")
	require.NotNil(t, algiers.YearlyAvg)
	assert.InDelta(t, 18.0, *algiers.YearlyAvg, 1e-9)

	// Footnote marker stripped from the city name.
	accra := findRow(t, rows, "Accra")
	assert.Equal(t, "Ghana", accra.Country)
}

func TestParse_MissingMonthStaysNil(t *testing.T) {
	accra := findRow(t, parsedFixture(t), "Accra")

	assert.Nil(t, accra.Months[5], "em dash cell is a missing value")
	assert.Equal(t, 11, accra.MonthCount())
}

func TestParse_YearlyFallback(t *testing.T) {
	rows := parsedFixture(t)

	// Empty Year cell: mean of the 11 present months.
	accra := findRow(t, rows, "Accra")
	require.NotNil(t, accra.YearlyAvg)
	assert.InDelta(t, 27.3909, *accra.YearlyAvg, 0.001)

	// No Year column at all.
	ub := findRow(t, rows, "Ulaanbaatar")
	require.NotNil(t, ub.YearlyAvg)
	assert.InDelta(t, -0.4333, *ub.YearlyAvg, 0.001)
}

func TestParse_UnicodeMinus(t *testing.T) {
	ub := findRow(t, parsedFixture(t), "Ulaanbaatar")

	require.NotNil(t, ub.Months[0])
	assert.InDelta(t, -21.6, *ub.Months[0], 1e-9, "&minus; entity")
	require.NotNil(t, ub.Months[1])
	assert.InDelta(t, -16.6, *ub.Months[1], 1e-9, "U+2212 literal")
}

func TestParse_ExtraTableIgnored(t *testing.T) {
	for _, r := range parsedFixture(t) {
		assert.NotEqual(t, "McMurdo Station", r.City)
	}
}

func TestParse_NoTables(t *testing.T) {
	_, err := Parse([]byte("<html><body><p>moved</p></body></html>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no wikitable")
}
