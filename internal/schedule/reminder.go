package schedule

import (
	"time"
)

// Layouts used for reminder fields.
const (
	DateLayout    = time.DateOnly
	DisplayLayout = "3:04 PM"
	idLayout      = "2006-01-02-15-04"
)

// TypeRegular is the only reminder type produced today. TypePRN and TypeTaper
// are reserved for as-needed and tapering prescriptions.
const (
	TypeRegular = "Regular"
	TypePRN     = "PRN"
	TypeTaper   = "Taper"
)

// DeliveryStatus tracks the outbound message for a reminder.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
	DeliverySkipped DeliveryStatus = "skipped"
)

// Reminder is one scheduled dose of a medicine.
type Reminder struct {
	ID            string         `json:"id"`
	Medicine      string         `json:"medicine"`
	Dosage        string         `json:"dosage"`
	Time          string         `json:"time"`
	Date          string         `json:"date"`
	Type          string         `json:"type"`
	Taken         bool           `json:"taken"`
	ContactNumber string         `json:"contactNumber,omitempty"`
	Delivery      DeliveryStatus `json:"deliveryStatus,omitempty"`
}

// At returns the local wall-clock instant of the dose.
func (r Reminder) At() (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+DisplayLayout, r.Date+" "+r.Time, time.Local)
}

// ReminderID derives the identity of a dose. Two doses of the same medicine at
// the same minute share an ID.
func ReminderID(medicine string, at time.Time) string {
	return medicine + "-" + at.Format(idLayout)
}

// ParseDate parses a yyyy-MM-dd calendar date at local midnight.
func ParseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}
