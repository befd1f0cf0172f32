package utils

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"flightops-bot/internal/domain/entity"
)

func TestParseFlightSchedule(t *testing.T) {
	amsterdam, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	schedule, err := ParseFlightSchedule(" 25/12/2025 ", "18:30", amsterdam)
	if err != nil {
		t.Fatalf("ParseFlightSchedule: %v", err)
	}

	want := time.Date(2025, 12, 25, 17, 30, 0, 0, time.UTC)
	if !schedule.StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", schedule.StartTime.UTC(), want)
	}
	if schedule.EndTime.Sub(schedule.StartTime) != time.Hour {
		t.Errorf("duration = %v, want 1h", schedule.EndTime.Sub(schedule.StartTime))
	}
}

func TestParseFlightScheduleDefaultsToUTC(t *testing.T) {
	schedule, err := ParseFlightSchedule("01/01/2026", "00:05", nil)
	if err != nil {
		t.Fatalf("ParseFlightSchedule: %v", err)
	}
	if want := time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC); !schedule.StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", schedule.StartTime, want)
	}
}

func TestParseFlightScheduleShortDate(t *testing.T) {
	tests := []struct {
		date string
		want time.Time
	}{
		{"5/12/2025", time.Date(2025, 12, 5, 9, 0, 0, 0, time.UTC)},
		{"25/1/2025", time.Date(2025, 1, 25, 9, 0, 0, 0, time.UTC)},
		{"5/1/2025", time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		schedule, err := ParseFlightSchedule(tt.date, "09:00", time.UTC)
		if err != nil {
			t.Errorf("ParseFlightSchedule(%q): %v", tt.date, err)
			continue
		}
		if !schedule.StartTime.Equal(tt.want) {
			t.Errorf("ParseFlightSchedule(%q) start = %v, want %v", tt.date, schedule.StartTime, tt.want)
		}
	}
}

func TestParseFlightScheduleErrors(t *testing.T) {
	tests := []struct {
		date, clock string
		field       string
	}{
		{"", "18:30", "date"},
		{"25/12/2025", "", "time"},
		{"12/25/2025", "18:30", "date"},
		{"2025-12-25", "18:30", "date"},
		{"31/2/2025", "18:30", "date"},
		{"25/12/2025", "6pm", "time"},
		{"25/12/2025", "24:00", "time"},
		{"25/12/2025", "18:30:00", "time"},
	}

	for _, tt := range tests {
		_, err := ParseFlightSchedule(tt.date, tt.clock, time.UTC)
		var validationErr *entity.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("ParseFlightSchedule(%q, %q) error = %v, want ValidationError", tt.date, tt.clock, err)
			continue
		}
		if validationErr.Field != tt.field {
			t.Errorf("ParseFlightSchedule(%q, %q) field = %q, want %q", tt.date, tt.clock, validationErr.Field, tt.field)
		}
	}
}

func TestParseIDList(t *testing.T) {
	got := ParseIDList(" 123, ,456,")
	if want := []string{"123", "456"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ParseIDList = %v, want %v", got, want)
	}
	if ParseIDList("") != nil {
		t.Error("expected nil for an empty list")
	}
}

func TestShortID(t *testing.T) {
	id := NewID()
	if id == NewID() {
		t.Error("NewID returned the same value twice")
	}
	if short := ShortID(id); len(short) == 0 || len(short) >= len(id) {
		t.Errorf("ShortID(%q) = %q", id, short)
	}
}
