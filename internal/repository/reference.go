package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
)

// ReferenceRepository reads the two upstream tables the dashboard is built from:
// {airport_code, city} and {flight_id, scheduled_departure, departure_airport,
// arrival_airport, aircraft_code, passenger_count?, seats_count?}.
type ReferenceRepository interface {
	LoadLocations(ctx context.Context) (domain.LocationLookup, error)
	LoadFlightFacts(ctx context.Context) ([]domain.FlightFact, error)
}

// cityForLocale picks one locale out of a localized city value.
func cityForLocale(values map[string]string, locale, airportCode string) (string, error) {
	city, ok := values[locale]
	if !ok || city == "" {
		return "", fmt.Errorf("airport %s: no city name for locale %q", airportCode, locale)
	}
	return city, nil
}

// cityFromJSON is cityForLocale for stores that keep the localized value as JSON text.
func cityFromJSON(raw, locale, airportCode string) (string, error) {
	var values map[string]string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return "", fmt.Errorf("airport %s: decode city: %w", airportCode, err)
	}
	return cityForLocale(values, locale, airportCode)
}

func malformed(op string, err error) error {
	return &domain.DataSourceError{Op: op, Err: err}
}

func sourceError(op string, err error) error {
	return &domain.DataSourceError{Op: op, Err: err, Transient: isTransient(err)}
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return isTransientPG(err)
}

func intPtr(v int64) *int {
	n := int(v)
	return &n
}
