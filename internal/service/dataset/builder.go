package dataset

import (
	"math"
	"time"

	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
)

// ExclusionReason names why a fact did not make it into the dataset.
type ExclusionReason string

const (
	ReasonUnresolvedAirport  ExclusionReason = "unresolved_airport"
	ReasonMissingCounts      ExclusionReason = "missing_counts"
	ReasonZeroSeats          ExclusionReason = "zero_seats"
	ReasonNegativePassengers ExclusionReason = "negative_passengers"
)

// exclusion reports true when the fact must be dropped.
type exclusion struct {
	reason ExclusionReason
	match  func(f domain.FlightFact, locations domain.LocationLookup) bool
}

var exclusions = []exclusion{
	{ReasonUnresolvedAirport, unresolvedAirport},
	{ReasonMissingCounts, missingCounts},
	{ReasonZeroSeats, zeroSeats},
	{ReasonNegativePassengers, negativePassengers},
}

func unresolvedAirport(f domain.FlightFact, locations domain.LocationLookup) bool {
	_, depOK := locations.City(f.DepartureAirport)
	_, arrOK := locations.City(f.ArrivalAirport)
	return !depOK || !arrOK
}

func missingCounts(f domain.FlightFact, _ domain.LocationLookup) bool {
	return f.PassengerCount == nil || f.SeatsCount == nil
}

func zeroSeats(f domain.FlightFact, _ domain.LocationLookup) bool {
	return f.SeatsCount != nil && *f.SeatsCount <= 0
}

func negativePassengers(f domain.FlightFact, _ domain.LocationLookup) bool {
	return f.PassengerCount != nil && *f.PassengerCount < 0
}

// BuildStats counts kept and dropped facts per exclusion reason.
type BuildStats struct {
	Facts    int
	Kept     int
	Excluded map[ExclusionReason]int
}

// Build joins facts with the airport lookup, derives calendar fields in loc and computes
// coef_seats. Source order is kept. An empty result is a valid dataset.
func Build(locations domain.LocationLookup, facts []domain.FlightFact, loc *time.Location) (*Dataset, BuildStats) {
	if loc == nil {
		loc = time.UTC
	}
	stats := BuildStats{Facts: len(facts), Excluded: make(map[ExclusionReason]int)}
	rows := make([]domain.EnrichedFlight, 0, len(facts))

	for _, f := range facts {
		if reason, drop := excluded(f, locations); drop {
			stats.Excluded[reason]++
			continue
		}
		rows = append(rows, enrich(f, locations, loc))
	}
	stats.Kept = len(rows)

	return &Dataset{rows: rows, cities: locations.Cities()}, stats
}

func excluded(f domain.FlightFact, locations domain.LocationLookup) (ExclusionReason, bool) {
	for _, e := range exclusions {
		if e.match(f, locations) {
			return e.reason, true
		}
	}
	return "", false
}

func enrich(f domain.FlightFact, locations domain.LocationLookup, loc *time.Location) domain.EnrichedFlight {
	depCity, _ := locations.City(f.DepartureAirport)
	arrCity, _ := locations.City(f.ArrivalAirport)
	local := f.ScheduledDeparture.In(loc)

	return domain.EnrichedFlight{
		FlightID:           f.FlightID,
		ScheduledDeparture: local,
		DepartureAirport:   f.DepartureAirport,
		ArrivalAirport:     f.ArrivalAirport,
		AircraftCode:       f.AircraftCode,
		PassengerCount:     *f.PassengerCount,
		SeatsCount:         *f.SeatsCount,
		DepartureCity:      depCity,
		ArrivalCity:        arrCity,
		Year:               local.Year(),
		Month:              int(local.Month()),
		Day:                local.Day(),
		Weekday:            domain.ISOWeekday(local),
		Date:               domain.DateOf(local),
		CoefSeats:          FillRatio(*f.PassengerCount, *f.SeatsCount),
	}
}

// FillRatio returns passengers/seats rounded to 2 decimals, ties to even
// (125/200 gives 0.62). seats must be positive.
func FillRatio(passengers, seats int) float64 {
	return math.RoundToEven(float64(passengers)/float64(seats)*100) / 100
}
