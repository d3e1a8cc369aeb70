package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/lehakot-create/LCT2023-13Case-Dash/config"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
)

// OpenClickHouse opens and pings a ClickHouse connection.
func OpenClickHouse(ctx context.Context, cfg config.ClickHouseConfig) (driver.Conn, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	return conn, nil
}

// CHReferenceRepository reads airports_data and the flight_facts view from ClickHouse.
// The city column holds the localized names as a JSON object; flight_id, passenger_count
// and seats_count are Int64 (the counts Nullable).
type CHReferenceRepository struct {
	conn   driver.Conn
	locale string
}

func NewCHReferenceRepository(conn driver.Conn, locale string) ReferenceRepository {
	return &CHReferenceRepository{conn: conn, locale: locale}
}

func (r *CHReferenceRepository) LoadLocations(ctx context.Context) (domain.LocationLookup, error) {
	rows, err := r.conn.Query(ctx, `SELECT airport_code, city FROM airports_data`)
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

func (r *CHReferenceRepository) LoadFlightFacts(ctx context.Context) ([]domain.FlightFact, error) {
	rows, err := r.conn.Query(ctx, `SELECT flight_id, scheduled_departure, departure_airport, arrival_airport, aircraft_code, passenger_count, seats_count
		FROM flight_facts ORDER BY flight_id`)
	if err != nil {
		return nil, sourceError("query flights", err)
	}
	defer rows.Close()

	facts := make([]domain.FlightFact, 0)
	for rows.Next() {
		var (
			f          domain.FlightFact
			passengers *int64
			seats      *int64
		)
		if err := rows.Scan(&f.FlightID, &f.ScheduledDeparture, &f.DepartureAirport, &f.ArrivalAirport, &f.AircraftCode, &passengers, &seats); err != nil {
			return nil, malformed("scan flight", err)
		}
		if passengers != nil {
			f.PassengerCount = intPtr(*passengers)
		}
		if seats != nil {
			f.SeatsCount = intPtr(*seats)
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, sourceError("read flights", err)
	}
	return facts, nil
}

var _ ReferenceRepository = (*CHReferenceRepository)(nil)
