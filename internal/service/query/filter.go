// Package query selects the rows of the flight table that match an applied filter.
package query

import (
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
)

// Rows is the read-only table the engine scans. *dataset.Dataset implements it;
// an indexed implementation can be dropped in without touching callers.
type Rows interface {
	Len() int
	At(i int) domain.EnrichedFlight
}

// Filter returns, in table order, the rows whose departure city, arrival city and date
// all match state. Empty city sets match nothing and an inverted date range yields an
// empty result. Filter only reads rows and may run concurrently.
func Filter(rows Rows, state domain.FilterState) []domain.EnrichedFlight {
	result := make([]domain.EnrichedFlight, 0)
	if rows == nil || state.Validate() != nil {
		return result
	}
	if len(state.DepartureCities) == 0 || len(state.ArrivalCities) == 0 {
		return result
	}

	for i, n := 0, rows.Len(); i < n; i++ {
		row := rows.At(i)
		if Matches(row, state) {
			result = append(result, row)
		}
	}
	return result
}

// Matches is the row predicate used by Filter.
func Matches(row domain.EnrichedFlight, state domain.FilterState) bool {
	return state.HasDeparture(row.DepartureCity) &&
		state.HasArrival(row.ArrivalCity) &&
		state.Covers(row.Date)
}

// Slice adapts an already filtered result back into Rows.
type Slice []domain.EnrichedFlight

func (s Slice) Len() int { return len(s) }
func (s Slice) At(i int) domain.EnrichedFlight { return s[i] }
