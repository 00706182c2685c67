package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/city-temp-map/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, Close(db))
	})
	require.NoError(t, Migrate(db))
	return NewStore(db)
}

func rowFixture(continent, country, city string, base float64) domain.TemperatureRow {
	row := domain.TemperatureRow{
		Continent: continent,
		Country:   country,
		City:      city,
		YearlyAvg: fptr(base),
	}
	for i := range row.Months {
		row.Months[i] = fptr(base)
	}
	return row
}

func TestMigrateIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, Close(db))
	})

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestReplaceAllAndRows(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	sparse := domain.TemperatureRow{
		Continent: "Europe",
		Country:   "Norway",
		City:      "Longyearbyen",
		Months:    [12]*float64{fptr(-13.9), nil, nil, nil, nil, fptr(3.6), fptr(7.0), nil, nil, nil, nil, nil},
	}
	in := []domain.TemperatureRow{
		rowFixture("Africa", "Ghana", "Accra", 27.3),
		rowFixture("Europe", "Norway", "Oslo", 6.4),
		sparse,
	}

	n, err := store.ReplaceAll(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := store.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Accra", got[0].City)
	assert.Equal(t, "Longyearbyen", got[1].City, "rows sort by continent, country, city")
	assert.Equal(t, "Oslo", got[2].City)

	require.NotNil(t, got[0].YearlyAvg)
	assert.InDelta(t, 27.3, *got[0].YearlyAvg, 1e-9)

	assert.Nil(t, got[1].YearlyAvg, "absent yearly average survives the round trip as nil")
	assert.Nil(t, got[1].Months[1])
	require.NotNil(t, got[1].Months[0])
	assert.InDelta(t, -13.9, *got[1].Months[0], 1e-9)
	assert.Equal(t, 3, got[1].MonthCount())
}

func TestReplaceAllClearsPreviousRun(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.ReplaceAll(ctx, []domain.TemperatureRow{
		rowFixture("Africa", "Ghana", "Accra", 27.3),
		rowFixture("Asia", "Japan", "Tokyo", 15.4),
		rowFixture("Asia", "Japan", "Osaka", 16.2),
	})
	require.NoError(t, err)

	n, err := store.ReplaceAll(ctx, []domain.TemperatureRow{
		rowFixture("Europe", "France", "Paris", 12.4),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Paris", got[0].City)

	counts, err := store.CountSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Continents: 1, Countries: 1, Cities: 1}, counts)
}

func TestReplaceAllEmpty(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	n, err := store.ReplaceAll(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := store.Rows(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCountSummary(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.ReplaceAll(ctx, []domain.TemperatureRow{
		rowFixture("Asia", "Japan", "Tokyo", 15.4),
		rowFixture("Asia", "Japan", "Osaka", 16.2),
		rowFixture("Asia", "India", "Mumbai", 27.3),
		rowFixture("Africa", "Ghana", "Accra", 27.3),
	})
	require.NoError(t, err)

	counts, err := store.CountSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Continents: 2, Countries: 3, Cities: 4}, counts)
}

func TestHottestColdest(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	noYearly := rowFixture("Oceania", "Fiji", "Suva", 25.2)
	noYearly.YearlyAvg = nil

	_, err := store.ReplaceAll(ctx, []domain.TemperatureRow{
		rowFixture("Africa", "Sudan", "Khartoum", 29.9),
		rowFixture("Europe", "Iceland", "Reykjavík", 4.3),
		rowFixture("Asia", "Mongolia", "Ulaanbaatar", -0.4),
		noYearly,
	})
	require.NoError(t, err)

	hottest, err := store.Hottest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, hottest, 2)
	assert.Equal(t, "Khartoum", hottest[0].City)
	assert.Equal(t, "Reykjavík", hottest[1].City)

	coldest, err := store.Coldest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, coldest, 2)
	assert.Equal(t, "Ulaanbaatar", coldest[0].City)
	assert.InDelta(t, -0.4, coldest[0].YearlyAvg, 1e-9)

	all, err := store.Hottest(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3, "rows without a yearly average stay out of the report")
}

func TestDuplicateCityNamesAllowed(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	// The source page legitimately lists e.g. two Valencias.
	_, err := store.ReplaceAll(ctx, []domain.TemperatureRow{
		rowFixture("Europe", "Spain", "Valencia", 18.3),
		rowFixture("South America", "Venezuela", "Valencia", 26.1),
	})
	require.NoError(t, err)

	got, err := store.Rows(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
