package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/city-temp-map/internal/domain"
)

func fptr(v float64) *float64 { return &v }

// flatCity builds a record with the same value for every month.
func flatCity(name string, lat, lng, temp float64) domain.CityRecord {
	var months [12]*float64
	for i := range months {
		months[i] = fptr(temp)
	}
	row := domain.TemperatureRow{
		Continent: "Test", Country: "Test", City: name,
		Months: months, YearlyAvg: fptr(temp),
	}
	return row.Record(lat, lng)
}

func TestInterpolateCoincidentPoint(t *testing.T) {
	ds := &domain.Dataset{Cities: []domain.CityRecord{
		flatCity("Accra", 5.6, -0.19, 27.4),
		flatCity("Reykjavik", 64.15, -21.94, 4.6),
		flatCity("Singapore", 1.35, 103.82, 27.0),
	}}
	ip := NewInterpolator()

	// A query on top of a city returns that city's value exactly, for
	// every city and every selector.
	for _, rec := range ds.Cities {
		for m := domain.Yearly; m <= domain.December; m++ {
			got := ip.Interpolate(ds, m, *rec.Lat, *rec.Lng)
			want, _ := rec.Value(m)
			assert.Equal(t, want, got, "%s month %s", rec.City, m)
		}
	}
}

func TestInterpolateEquidistant(t *testing.T) {
	t.Run("two cities", func(t *testing.T) {
		ds := &domain.Dataset{Cities: []domain.CityRecord{
			flatCity("East", 0, 10, 20),
			flatCity("West", 0, -10, 10),
		}}
		got := NewInterpolator().Interpolate(ds, domain.January, 0, 0)
		assert.InDelta(t, 15.0, got, 1e-9)
	})

	t.Run("four cities cross", func(t *testing.T) {
		ds := &domain.Dataset{Cities: []domain.CityRecord{
			flatCity("N", 10, 0, 4),
			flatCity("S", -10, 0, 8),
			flatCity("E", 0, 10, 12),
			flatCity("W", 0, -10, 16),
		}}
		got := NewInterpolator().Interpolate(ds, domain.June, 0, 0)
		assert.InDelta(t, 10.0, got, 1e-9)
	})
}

func TestInterpolateMidpoint(t *testing.T) {
	// Cities A and B on the equator at lng 0 and 10 with jan 10 and 20:
	// the midpoint (0, 5) must land strictly between, at the mean.
	ds := &domain.Dataset{Cities: []domain.CityRecord{
		flatCity("A", 0, 0, 10),
		flatCity("B", 0, 10, 20),
	}}
	got := NewInterpolator().Interpolate(ds, domain.January, 0, 5)

	assert.Greater(t, got, 10.0)
	assert.Less(t, got, 20.0)
	assert.InDelta(t, 15.0, got, 1e-6)
}

func TestInterpolateDistanceWeighting(t *testing.T) {
	ds := &domain.Dataset{Cities: []domain.CityRecord{
		flatCity("A", 0, 0, 10),
		flatCity("B", 0, 10, 20),
	}}
	ip := NewInterpolator()

	nearA := ip.Interpolate(ds, domain.January, 0, 2)
	nearB := ip.Interpolate(ds, domain.January, 0, 8)

	assert.Less(t, nearA, 15.0)
	assert.Greater(t, nearB, 15.0)
	// 2° versus 8° from the two cities gives a 16:1 weight ratio under
	// inverse-square, so the near city dominates: (16·10+20)/17 ≈ 10.6.
	assert.Less(t, nearA, 11.0)
	assert.Greater(t, nearB, 19.0)
}

func TestInterpolateMissingMonthExcluded(t *testing.T) {
	a := flatCity("A", 0, 0, 10)
	b := flatCity("B", 0, 10, 20)
	c := flatCity("C", 5, 5, 100)
	c.Jan = nil

	with := &domain.Dataset{Cities: []domain.CityRecord{a, b, c}}
	without := &domain.Dataset{Cities: []domain.CityRecord{a, b}}
	ip := NewInterpolator()

	t.Run("missing month contributes nothing", func(t *testing.T) {
		// C has no january value, so january results match the dataset
		// without C entirely. Zero-substitution would drag the result
		// toward 0 instead.
		got := ip.Interpolate(with, domain.January, 1, 3)
		want := ip.Interpolate(without, domain.January, 1, 3)
		assert.InDelta(t, want, got, 1e-12)
	})

	t.Run("present months still contribute", func(t *testing.T) {
		got := ip.Interpolate(with, domain.February, 5, 5)
		assert.Equal(t, 100.0, got)
	})
}

func TestInterpolateExclusions(t *testing.T) {
	ip := NewInterpolator()

	t.Run("empty dataset", func(t *testing.T) {
		assert.True(t, math.IsNaN(ip.Interpolate(&domain.Dataset{}, domain.January, 0, 0)))
	})

	t.Run("nil dataset", func(t *testing.T) {
		assert.True(t, math.IsNaN(ip.Interpolate(nil, domain.January, 0, 0)))
	})

	t.Run("record without coordinates", func(t *testing.T) {
		rec := flatCity("Nowhere", 0, 0, 25)
		rec.Lat = nil
		require.False(t, rec.HasCoordinates())
		ds := &domain.Dataset{Cities: []domain.CityRecord{rec}}
		assert.True(t, math.IsNaN(ip.Interpolate(ds, domain.January, 10, 10)))
	})

	t.Run("month missing everywhere", func(t *testing.T) {
		rec := flatCity("A", 10, 10, 25)
		rec.Mar = nil
		ds := &domain.Dataset{Cities: []domain.CityRecord{rec}}
		assert.True(t, math.IsNaN(ip.Interpolate(ds, domain.March, 10, 10)))
	})
}

func TestInterpolateSnapRespectsMonth(t *testing.T) {
	// The snap-to-city shortcut only applies to cities that actually
	// carry the selected month; otherwise the remaining cities decide.
	a := flatCity("A", 0, 0, 10)
	a.Jan = nil
	b := flatCity("B", 0, 10, 20)
	ds := &domain.Dataset{Cities: []domain.CityRecord{a, b}}

	got := NewInterpolator().Interpolate(ds, domain.January, 0, 0)
	assert.Equal(t, 20.0, got)
}
