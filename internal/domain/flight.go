package domain

import "time"

// FlightFact is one scheduled flight as read from the data source.
// PassengerCount is nil when no tickets were sold, SeatsCount when the aircraft is unknown.
type FlightFact struct {
	FlightID           int64
	ScheduledDeparture time.Time
	DepartureAirport   string
	ArrivalAirport     string
	AircraftCode       string
	PassengerCount     *int
	SeatsCount         *int
}

// EnrichedFlight is a FlightFact with resolved cities, calendar fields and the fill ratio.
type EnrichedFlight struct {
	FlightID           int64     `json:"flight_id"`
	ScheduledDeparture time.Time `json:"scheduled_departure"`
	DepartureAirport   string    `json:"departure_airport"`
	ArrivalAirport     string    `json:"arrival_airport"`
	AircraftCode       string    `json:"aircraft_code"`
	PassengerCount     int       `json:"passenger_count"`
	SeatsCount         int       `json:"seats_count"`
	DepartureCity      string    `json:"departure_city"`
	ArrivalCity        string    `json:"arrival_city"`
	Year               int       `json:"year"`
	Month              int       `json:"month"`
	Day                int       `json:"day"`
	Weekday            int       `json:"weekday"`
	Date               Date      `json:"date"`
	CoefSeats          float64   `json:"coef_seats"`
}

// ISOWeekday maps time.Weekday to 1=Monday..7=Sunday.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
