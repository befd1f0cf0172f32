package utils

import "time"

// Constants
const (
	DATE_LAYOUT       = "02/01/2006"
	DATE_SHORT_LAYOUT = "2/1/2006"
	TIME_LAYOUT       = "15:04"
)

// FlightSchedule is the parsed start/end window of a flight
type FlightSchedule struct {
	StartTime time.Time
	EndTime   time.Time
}
