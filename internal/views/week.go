package views

import (
	"time"

	"github.com/wolfman30/medreminder/internal/schedule"
)

// DayColumn is one day of the week grid.
type DayColumn struct {
	Date      string              `json:"date"`
	Weekday   string              `json:"weekday"`
	IsToday   bool                `json:"isToday"`
	Reminders []schedule.Reminder `json:"reminders"`
}

// WeekView is seven consecutive days starting on Sunday.
type WeekView struct {
	Start string       `json:"start"`
	Days  [7]DayColumn `json:"days"`
}

// StartOfWeek returns local midnight of the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// Week groups reminders into the week containing anchor. now only marks
// which column is today.
func Week(rs []schedule.Reminder, anchor, now time.Time) WeekView {
	start := StartOfWeek(anchor)
	today := dateKey(now)

	var view WeekView
	view.Start = dateKey(start)
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		key := dateKey(day)
		view.Days[i] = DayColumn{
			Date:      key,
			Weekday:   day.Format("Mon"),
			IsToday:   key == today,
			Reminders: []schedule.Reminder{},
		}
		index[key] = i
	}
	for _, r := range rs {
		if i, ok := index[r.Date]; ok {
			view.Days[i].Reminders = append(view.Days[i].Reminders, r)
		}
	}
	return view
}

// WeekPager is the calendar's selected week. It pages by whole weeks.
type WeekPager struct {
	anchor time.Time
}

// NewWeekPager starts paging at the week containing now.
func NewWeekPager(now time.Time) *WeekPager {
	return &WeekPager{anchor: now}
}

// Anchor returns the current anchor.
func (p *WeekPager) Anchor() time.Time { return p.anchor }

// Next moves one week forward.
func (p *WeekPager) Next() time.Time {
	p.anchor = p.anchor.AddDate(0, 0, 7)
	return p.anchor
}

// Prev moves one week back.
func (p *WeekPager) Prev() time.Time {
	p.anchor = p.anchor.AddDate(0, 0, -7)
	return p.anchor
}

// Offset jumps n weeks from the current anchor; negative n pages back.
func (p *WeekPager) Offset(n int) time.Time {
	p.anchor = p.anchor.AddDate(0, 0, 7*n)
	return p.anchor
}

// Reset returns to the week containing now.
func (p *WeekPager) Reset(now time.Time) time.Time {
	p.anchor = now
	return p.anchor
}
