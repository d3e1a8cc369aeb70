package domain

import (
	"fmt"
	"sort"
)

// FilterState is the selection a user applied. It is replaced as a whole on every apply.
type FilterState struct {
	DepartureCities map[string]struct{}
	ArrivalCities   map[string]struct{}
	StartDate       Date
	EndDate         Date
}

// ParseFilterState builds a FilterState from selector values. Dates are YYYY-MM-DD.
// An inverted range is not rejected here, see Validate.
func ParseFilterState(departureCities, arrivalCities []string, startDate, endDate string) (FilterState, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return FilterState{}, &ValidationError{Field: "start_date", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", startDate)}
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return FilterState{}, &ValidationError{Field: "end_date", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", endDate)}
	}
	return FilterState{
		DepartureCities: toSet(departureCities),
		ArrivalCities:   toSet(arrivalCities),
		StartDate:       start,
		EndDate:         end,
	}, nil
}

// Validate returns a ValidationError when the date range is inverted.
func (f FilterState) Validate() error {
	if f.StartDate.After(f.EndDate) {
		return &ValidationError{Field: "date_range", Reason: fmt.Sprintf("end date %s is before start date %s", f.EndDate, f.StartDate)}
	}
	return nil
}

func (f FilterState) HasDeparture(city string) bool {
	_, ok := f.DepartureCities[city]
	return ok
}

func (f FilterState) HasArrival(city string) bool {
	_, ok := f.ArrivalCities[city]
	return ok
}

// Covers reports whether d lies in [StartDate, EndDate].
func (f FilterState) Covers(d Date) bool {
	return !d.Before(f.StartDate) && !d.After(f.EndDate)
}

func (f FilterState) Departures() []string { return sortedKeys(f.DepartureCities) }
func (f FilterState) Arrivals() []string { return sortedKeys(f.ArrivalCities) }

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
