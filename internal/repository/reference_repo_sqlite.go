package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS airports_data (
	airport_code TEXT PRIMARY KEY,
	city TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS flight_facts (
	flight_id INTEGER PRIMARY KEY,
	scheduled_departure TEXT NOT NULL,
	departure_airport TEXT NOT NULL,
	arrival_airport TEXT NOT NULL,
	aircraft_code TEXT NOT NULL,
	passenger_count INTEGER,
	seats_count INTEGER
);`

// OpenSQLite opens a SQLite file holding airports_data and flight_facts.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

// SQLiteReferenceRepository keeps the same layout as the ClickHouse store;
// scheduled_departure is RFC 3339 text, naive timestamps are read as UTC.
type SQLiteReferenceRepository struct {
	db     *sql.DB
	locale string
}

func NewSQLiteReferenceRepository(db *sql.DB, locale string) ReferenceRepository {
	return &SQLiteReferenceRepository{db: db, locale: locale}
}

func (r *SQLiteReferenceRepository) LoadLocations(ctx context.Context) (domain.LocationLookup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT airport_code, city FROM airports_data`)
	if err != nil {
		return nil, sourceError("query airports", err)
	}
	defer rows.Close()

	lookup := make(domain.LocationLookup)
	for rows.Next() {
		var code, city string
		if err := rows.Scan(&code, &city); err != nil {
			return nil, malformed("scan airport", err)
		}
		name, err := cityFromJSON(city, r.locale, code)
		if err != nil {
			return nil, malformed("normalize airport", err)
		}
		lookup[code] = name
	}
	if err := rows.Err(); err != nil {
		return nil, sourceError("read airports", err)
	}
	return lookup, nil
}

func (r *SQLiteReferenceRepository) LoadFlightFacts(ctx context.Context) ([]domain.FlightFact, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT flight_id, scheduled_departure, departure_airport, arrival_airport, aircraft_code, passenger_count, seats_count
		FROM flight_facts ORDER BY flight_id`)
	if err != nil {
		return nil, sourceError("query flights", err)
	}
	defer rows.Close()

	facts := make([]domain.FlightFact, 0)
	for rows.Next() {
		var (
			f          domain.FlightFact
			departure  string
			passengers sql.NullInt64
			seats      sql.NullInt64
		)
		if err := rows.Scan(&f.FlightID, &departure, &f.DepartureAirport, &f.ArrivalAirport, &f.AircraftCode, &passengers, &seats); err != nil {
			return nil, malformed("scan flight", err)
		}
		ts, err := parseTimestamp(departure)
		if err != nil {
			return nil, malformed("parse scheduled_departure", fmt.Errorf("flight %d: %w", f.FlightID, err))
		}
		f.ScheduledDeparture = ts
		if passengers.Valid {
			f.PassengerCount = intPtr(passengers.Int64)
		}
		if seats.Valid {
			f.SeatsCount = intPtr(seats.Int64)
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, sourceError("read flights", err)
	}
	return facts, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
}

var _ ReferenceRepository = (*SQLiteReferenceRepository)(nil)
