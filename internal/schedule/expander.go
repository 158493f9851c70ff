package schedule

import (
	"time"
)

// ExpandRequest describes one prescription submission.
type ExpandRequest struct {
	Medicine      string
	Dosage        string
	Frequency     string
	StartDate     time.Time
	DurationDays  int
	ExplicitTimes []TimeOfDay
	ContactNumber string
}

// ResolveTimes picks the dosing times for a request. Explicit times always win
// over the frequency label, whatever the label says.
func ResolveTimes(frequency string, explicit []TimeOfDay) ([]TimeOfDay, error) {
	if len(explicit) > 0 {
		out := make([]TimeOfDay, len(explicit))
		copy(out, explicit)
		return out, nil
	}
	times, ok := TimesFor(frequency)
	if !ok {
		return nil, ErrNoTimes
	}
	return times, nil
}

// Expand produces DurationDays × len(times) reminders in day-major,
// time-minor order. Times keep the order they were given in.
func Expand(req ExpandRequest) ([]Reminder, error) {
	if req.DurationDays <= 0 {
		return nil, ErrInvalidDuration
	}
	times, err := ResolveTimes(req.Frequency, req.ExplicitTimes)
	if err != nil {
		return nil, err
	}
	for _, t := range times {
		if !t.Valid() {
			return nil, ErrInvalidTime
		}
	}

	y, m, d := req.StartDate.Date()
	loc := req.StartDate.Location()

	out := make([]Reminder, 0, req.DurationDays*len(times))
	for day := 0; day < req.DurationDays; day++ {
		for _, t := range times {
			at := time.Date(y, m, d+day, t.Hour, t.Minute, 0, 0, loc)
			out = append(out, Reminder{
				ID:            ReminderID(req.Medicine, at),
				Medicine:      req.Medicine,
				Dosage:        req.Dosage,
				Time:          at.Format(DisplayLayout),
				Date:          at.Format(DateLayout),
				Type:          TypeRegular,
				ContactNumber: req.ContactNumber,
				Delivery:      DeliveryPending,
			})
		}
	}
	return out, nil
}
