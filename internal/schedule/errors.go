package schedule

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidDuration is returned when the duration is not a positive day count.
	ErrInvalidDuration = errors.New("schedule: duration must be a positive number of days")

	// ErrNoTimes is returned when neither explicit times nor a known frequency resolve.
	ErrNoTimes = errors.New("schedule: no dosing times resolved")

	// ErrInvalidTime is returned for a malformed HH:MM value.
	ErrInvalidTime = errors.New("schedule: invalid time of day")

	// ErrInvalidDate is returned for a malformed yyyy-MM-dd value.
	ErrInvalidDate = errors.New("schedule: invalid date")
)

// FieldErrors maps a form field to a user-facing message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
