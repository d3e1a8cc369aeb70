package render

import (
	"time"

	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
)

const TablePageSize = 30

// Column mirrors the {name, id} pairs the table widget expects.
type Column struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Columns is the fixed order of the detail table.
var Columns = []Column{
	{ID: "flight_id", Name: "flight_id", Type: "numeric"},
	{ID: "scheduled_departure", Name: "scheduled_departure", Type: "datetime"},
	{ID: "departure_airport", Name: "departure_airport", Type: "text"},
	{ID: "arrival_airport", Name: "arrival_airport", Type: "text"},
	{ID: "aircraft_code", Name: "aircraft_code", Type: "text"},
	{ID: "passenger_count", Name: "passenger_count", Type: "numeric"},
	{ID: "seats_count", Name: "seats_count", Type: "numeric"},
	{ID: "departure_city", Name: "departure_city", Type: "text"},
	{ID: "arrival_city", Name: "arrival_city", Type: "text"},
	{ID: "year", Name: "year", Type: "numeric"},
	{ID: "month", Name: "month", Type: "numeric"},
	{ID: "day", Name: "day", Type: "numeric"},
	{ID: "weekday", Name: "weekday", Type: "numeric"},
	{ID: "date", Name: "date", Type: "datetime"},
	{ID: "coef_seats", Name: "coef_seats", Type: "numeric"},
}

// Record is one flat table row. Its json names are the Column IDs, and timestamps are
// preformatted so a record decodes back to an equal value.
type Record struct {
	FlightID           int64   `json:"flight_id"`
	ScheduledDeparture string  `json:"scheduled_departure"`
	DepartureAirport   string  `json:"departure_airport"`
	ArrivalAirport     string  `json:"arrival_airport"`
	AircraftCode       string  `json:"aircraft_code"`
	PassengerCount     int     `json:"passenger_count"`
	SeatsCount         int     `json:"seats_count"`
	DepartureCity      string  `json:"departure_city"`
	ArrivalCity        string  `json:"arrival_city"`
	Year               int     `json:"year"`
	Month              int     `json:"month"`
	Day                int     `json:"day"`
	Weekday            int     `json:"weekday"`
	Date               string  `json:"date"`
	CoefSeats          float64 `json:"coef_seats"`
}

// TableSpec carries all filtered rows; the UI pages through them and applies
// per-column filters itself (FilterAction "native").
type TableSpec struct {
	Title        string   `json:"title"`
	Columns      []Column `json:"columns"`
	Records      []Record `json:"records"`
	TotalRows    int      `json:"total_rows"`
	PageSize     int      `json:"page_size"`
	PageCount    int      `json:"page_count"`
	FilterAction string   `json:"filter_action"`
}

func Table(rows []domain.EnrichedFlight) *TableSpec {
	records := make([]Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, toRecord(r))
	}
	columns := make([]Column, len(Columns))
	copy(columns, Columns)

	return &TableSpec{
		Title:        "Таблица полетов",
		Columns:      columns,
		Records:      records,
		TotalRows:    len(records),
		PageSize:     TablePageSize,
		PageCount:    (len(records) + TablePageSize - 1) / TablePageSize,
		FilterAction: "native",
	}
}

// Page returns the zero-based page n, or an empty slice when n is out of range.
func (t *TableSpec) Page(n int) []Record {
	if t == nil || n < 0 || n >= t.PageCount {
		return []Record{}
	}
	start := n * t.PageSize
	end := start + t.PageSize
	if end > len(t.Records) {
		end = len(t.Records)
	}
	return t.Records[start:end]
}

func toRecord(r domain.EnrichedFlight) Record {
	return Record{
		FlightID:           r.FlightID,
		ScheduledDeparture: r.ScheduledDeparture.Format(time.RFC3339),
		DepartureAirport:   r.DepartureAirport,
		ArrivalAirport:     r.ArrivalAirport,
		AircraftCode:       r.AircraftCode,
		PassengerCount:     r.PassengerCount,
		SeatsCount:         r.SeatsCount,
		DepartureCity:      r.DepartureCity,
		ArrivalCity:        r.ArrivalCity,
		Year:               r.Year,
		Month:              r.Month,
		Day:                r.Day,
		Weekday:            r.Weekday,
		Date:               r.Date.String(),
		CoefSeats:          r.CoefSeats,
	}
}
