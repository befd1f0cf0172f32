package utils

import (
	"strings"
	"time"

	"flightops-bot/internal/domain/entity"
)

// ParseFlightSchedule parses a DD/MM/YYYY date and a 24-hour HH:MM time in
// loc and derives the end time from entity.FlightDuration.
func ParseFlightSchedule(date, clock string, loc *time.Location) (FlightSchedule, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	if date == "" {
		return FlightSchedule{}, entity.NewValidationError("date", "is required (DD/MM/YYYY)")
	}
	if clock == "" {
		return FlightSchedule{}, entity.NewValidationError("time", "is required (HH:MM, 24-hour)")
	}
	if loc == nil {
		loc = time.UTC
	}

	// Day and month may be written without a leading zero.
	dateLayout := DATE_LAYOUT
	if _, err := time.Parse(dateLayout, date); err != nil {
		dateLayout = DATE_SHORT_LAYOUT
		if _, err := time.Parse(dateLayout, date); err != nil {
			return FlightSchedule{}, entity.NewValidationError("date", "expected DD/MM/YYYY, got "+quote(date))
		}
	}
	if _, err := time.Parse(TIME_LAYOUT, clock); err != nil {
		return FlightSchedule{}, entity.NewValidationError("time", "expected 24-hour HH:MM, got "+quote(clock))
	}

	start, err := time.ParseInLocation(dateLayout+" "+TIME_LAYOUT, date+" "+clock, loc)
	if err != nil {
		return FlightSchedule{}, entity.NewValidationError("date", err.Error())
	}

	return FlightSchedule{
		StartTime: start,
		EndTime:   EndTimeFor(start),
	}, nil
}

// EndTimeFor returns the derived end time for a flight starting at start.
func EndTimeFor(start time.Time) time.Time {
	return start.Add(entity.FlightDuration)
}

// ParseIDList splits a comma separated list of snowflake IDs, dropping blanks.
func ParseIDList(value string) []string {
	var ids []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

func quote(s string) string {
	return "\"" + s + "\""
}
