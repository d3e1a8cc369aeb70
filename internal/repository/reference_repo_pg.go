package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
)

const pgFlightFactsQuery = `WITH tpassenger_count AS (
	SELECT flight_id, COUNT(*) AS passenger_count
	FROM bookings.ticket_flights
	GROUP BY flight_id
),
tseats_count AS (
	SELECT aircraft_code, COUNT(*) AS seats_count
	FROM bookings.seats
	GROUP BY aircraft_code
)
SELECT f.flight_id, f.scheduled_departure, f.departure_airport, f.arrival_airport, f.aircraft_code,
	p.passenger_count, s.seats_count
FROM bookings.flights f
LEFT JOIN tpassenger_count p ON f.flight_id = p.flight_id
LEFT JOIN tseats_count s ON f.aircraft_code = s.aircraft_code
ORDER BY f.flight_id`

type PGReferenceRepository struct {
	db     *pgxpool.Pool
	locale string
}

func NewPGReferenceRepository(db *pgxpool.Pool, locale string) ReferenceRepository {
	return &PGReferenceRepository{db: db, locale: locale}
}

func (r *PGReferenceRepository) LoadLocations(ctx context.Context) (domain.LocationLookup, error) {
	rows, err := r.db.Query(ctx, `SELECT airport_code, city FROM bookings.airports_data`)
	if err != nil {
		return nil, sourceError("query airports", err)
	}
	defer rows.Close()

	lookup := make(domain.LocationLookup)
	for rows.Next() {
		var (
			code string
			city map[string]string
		)
		if err := rows.Scan(&code, &city); err != nil {
			return nil, malformed("scan airport", err)
		}
		name, err := cityForLocale(city, r.locale, code)
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

func (r *PGReferenceRepository) LoadFlightFacts(ctx context.Context) ([]domain.FlightFact, error) {
	rows, err := r.db.Query(ctx, pgFlightFactsQuery)
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

func isTransientPG(err error) bool {
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}

var _ ReferenceRepository = (*PGReferenceRepository)(nil)
