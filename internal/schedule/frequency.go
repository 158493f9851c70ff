// Package schedule expands a prescription into dated dose reminders.
// Expansion is pure: the same input always yields the same ordered batch
// with the same identities.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Frequency labels accepted on a prescription. FrequencyCustom never hits the
// table; it requires explicit times instead.
const (
	FrequencyOnce   = "once"
	FrequencyTwice  = "twice"
	FrequencyThrice = "thrice"
	FrequencyFour   = "four"
	FrequencyCustom = "custom"
)

// TimeOfDay is a wall-clock hour and minute.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// String renders the value as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Valid reports whether the hour and minute fall inside a day.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

var frequencyTable = map[string][]TimeOfDay{
	FrequencyOnce:   {{Hour: 9}},
	FrequencyTwice:  {{Hour: 9}, {Hour: 21}},
	FrequencyThrice: {{Hour: 9}, {Hour: 15}, {Hour: 21}},
	FrequencyFour:   {{Hour: 9}, {Hour: 13}, {Hour: 17}, {Hour: 21}},
}

// TimesFor returns the dosing times for a frequency label in table order.
// The returned slice is a copy; callers may modify it.
func TimesFor(label string) ([]TimeOfDay, bool) {
	times, ok := frequencyTable[label]
	if !ok {
		return nil, false
	}
	out := make([]TimeOfDay, len(times))
	copy(out, times)
	return out, true
}

// KnownFrequency reports whether label is a table label or FrequencyCustom.
func KnownFrequency(label string) bool {
	if label == FrequencyCustom {
		return true
	}
	_, ok := frequencyTable[label]
	return ok
}

// ParseTimeOfDay parses "HH:MM" (24h). Single-digit hours are accepted.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	value = strings.TrimSpace(value)
	hh, mm, ok := strings.Cut(value, ":")
	if !ok || hh == "" || len(hh) > 2 || len(mm) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	t := TimeOfDay{Hour: hour, Minute: minute}
	if !t.Valid() {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	return t, nil
}
