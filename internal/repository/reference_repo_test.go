package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPGReferenceRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewPGReferenceRepository(pool, "ru")
	assert.NotNil(t, repo)
}

func openTestSQLite(t *testing.T) *SQLiteReferenceRepository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "flights.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`INSERT INTO airports_data (airport_code, city) VALUES
		('SVO', '{"en": "Moscow", "ru": "Москва"}'),
		('LED', '{"en": "St. Petersburg", "ru": "Санкт-Петербург"}')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO flight_facts VALUES
		(1, '2016-03-01T09:00:00Z', 'SVO', 'LED', '773', 150, 402),
		(2, '2016-03-02 18:30:00', 'LED', 'SVO', 'SU9', NULL, 97)`)
	require.NoError(t, err)

	return NewSQLiteReferenceRepository(db, "ru").(*SQLiteReferenceRepository)
}

func TestSQLiteReferenceRepository_LoadLocations(t *testing.T) {
	repo := openTestSQLite(t)

	lookup, err := repo.LoadLocations(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.LocationLookup{"SVO": "Москва", "LED": "Санкт-Петербург"}, lookup)
}

func TestSQLiteReferenceRepository_LoadLocations_MissingLocale(t *testing.T) {
	repo := openTestSQLite(t)
	repo.locale = "de"

	lookup, err := repo.LoadLocations(context.Background())

	assert.Nil(t, lookup)
	var dsErr *domain.DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.False(t, dsErr.Transient)
}

func TestSQLiteReferenceRepository_LoadFlightFacts(t *testing.T) {
	repo := openTestSQLite(t)

	facts, err := repo.LoadFlightFacts(context.Background())

	require.NoError(t, err)
	require.Len(t, facts, 2)

	assert.Equal(t, int64(1), facts[0].FlightID)
	assert.Equal(t, time.Date(2016, time.March, 1, 9, 0, 0, 0, time.UTC), facts[0].ScheduledDeparture.UTC())
	require.NotNil(t, facts[0].PassengerCount)
	assert.Equal(t, 150, *facts[0].PassengerCount)
	assert.Equal(t, 402, *facts[0].SeatsCount)

	assert.Nil(t, facts[1].PassengerCount)
	assert.Equal(t, 97, *facts[1].SeatsCount)
	assert.Equal(t, time.Date(2016, time.March, 2, 18, 30, 0, 0, time.UTC), facts[1].ScheduledDeparture)
}

func TestSQLiteReferenceRepository_LoadFlightFacts_BadTimestamp(t *testing.T) {
	repo := openTestSQLite(t)
	_, err := repo.db.Exec(`INSERT INTO flight_facts VALUES (3, 'yesterday', 'SVO', 'LED', '773', 1, 2)`)
	require.NoError(t, err)

	facts, err := repo.LoadFlightFacts(context.Background())

	assert.Nil(t, facts)
	assert.Error(t, err)
	assert.False(t, domain.IsTransient(err))
}

func TestCityFromJSON(t *testing.T) {
	city, err := cityFromJSON(`{"en":"Kazan","ru":"Казань"}`, "en", "KZN")
	require.NoError(t, err)
	assert.Equal(t, "Kazan", city)

	_, err = cityFromJSON(`not json`, "en", "KZN")
	assert.Error(t, err)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(context.DeadlineExceeded))
	assert.False(t, isTransient(errors.New("syntax error")))
}
