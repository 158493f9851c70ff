// Package views derives read-only projections from a reminder snapshot.
// Nothing here mutates its input; every call recomputes from scratch.
package views

import (
	"sort"
	"time"

	"github.com/wolfman30/medreminder/internal/schedule"
)

func dateKey(t time.Time) string {
	return t.Format(schedule.DateLayout)
}

// Today returns reminders whose date is now's calendar date.
func Today(rs []schedule.Reminder, now time.Time) []schedule.Reminder {
	today := dateKey(now)
	out := make([]schedule.Reminder, 0)
	for _, r := range rs {
		if r.Date == today {
			out = append(out, r)
		}
	}
	return out
}

// Upcoming returns reminders dated today or later, ordered by date. The sort
// is stable, so same-day reminders keep their expansion order.
func Upcoming(rs []schedule.Reminder, now time.Time) []schedule.Reminder {
	today := dateKey(now)
	out := make([]schedule.Reminder, 0)
	for _, r := range rs {
		if r.Date >= today {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
