// Package calendar exports reminders as an iCalendar feed.
package calendar

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/wolfman30/medreminder/internal/schedule"
)

const (
	prodID   = "-//MedReminder//Reminders//EN"
	calName  = "Medication reminders"
	uidHost  = "medreminder"
	doseSpan = 15 * time.Minute

	// ContentType is the media type of the feed.
	ContentType = "text/calendar; charset=utf-8"
)

var emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + prodID + "\r\nEND:VCALENDAR\r\n"

// Encode renders reminders as one VEVENT per dose with a display alarm at
// dose time. Reminders whose time cannot be parsed are skipped.
func Encode(reminders []schedule.Reminder, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText("X-WR-CALNAME", calName)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "PUBLISH")

	for _, r := range reminders {
		at, err := r.At()
		if err != nil {
			continue
		}
		cal.Children = append(cal.Children, event(r, at, now).Component)
	}

	if len(cal.Children) == 0 {
		return []byte(emptyCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("calendar: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func event(r schedule.Reminder, at, now time.Time) *ical.Event {
	summary := fmt.Sprintf("Take %s %s", r.Medicine, r.Dosage)

	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, fmt.Sprintf("%s@%s", r.ID, uidHost))
	ev.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	ev.Props.SetDateTime(ical.PropDateTimeStart, at.UTC())
	ev.Props.SetDateTime(ical.PropDateTimeEnd, at.Add(doseSpan).UTC())
	ev.Props.SetText(ical.PropSummary, summary)
	if r.Taken {
		ev.Props.SetText(ical.PropDescription, "Taken")
	}

	alarm := ical.NewComponent(ical.CompAlarm)
	alarm.Props.SetText(ical.PropAction, "DISPLAY")
	alarm.Props.SetText(ical.PropDescription, summary)
	trigger := ical.NewProp(ical.PropTrigger)
	trigger.Value = "PT0M"
	alarm.Props.Set(trigger)
	ev.Children = append(ev.Children, alarm)

	return ev
}
