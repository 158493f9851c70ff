package schedule

import (
	"strconv"
	"strings"
)

// Form field keys used in FieldErrors.
const (
	FieldMedicine  = "medicineName"
	FieldDosage    = "dosage"
	FieldFrequency = "frequency"
	FieldDuration  = "duration"
	FieldStartDate = "startDate"
	FieldTimes     = "customTimes"
	FieldPhone     = "phoneNumber"
)

// MaxDurationDays bounds a single submission to ten years of doses.
const MaxDurationDays = 3650

// Submission is the raw prescription form as entered by the patient.
type Submission struct {
	MedicineName string   `json:"medicineName"`
	Dosage       string   `json:"dosage"`
	Frequency    string   `json:"frequency"`
	Duration     string   `json:"duration"`
	StartDate    string   `json:"startDate"`
	CustomTimes  []string `json:"customTimes,omitempty"`
	PhoneNumber  string   `json:"phoneNumber"`
}

// Validate checks every field and converts the form into an ExpandRequest.
// All problems are reported together as FieldErrors; a request that passes
// validation never fails expansion.
func (s Submission) Validate() (ExpandRequest, error) {
	errs := FieldErrors{}
	req := ExpandRequest{
		Medicine:      strings.TrimSpace(s.MedicineName),
		Dosage:        strings.TrimSpace(s.Dosage),
		Frequency:     strings.ToLower(strings.TrimSpace(s.Frequency)),
		ContactNumber: strings.TrimSpace(s.PhoneNumber),
	}

	if req.Medicine == "" {
		errs[FieldMedicine] = "Medicine name is required"
	}
	if req.Dosage == "" {
		errs[FieldDosage] = "Dosage is required"
	}

	switch {
	case req.Frequency == "":
		errs[FieldFrequency] = "Frequency is required"
	case !KnownFrequency(req.Frequency):
		errs[FieldFrequency] = "Frequency must be one of once, twice, thrice, four or custom"
	}

	duration := strings.TrimSpace(s.Duration)
	if duration == "" {
		errs[FieldDuration] = "Duration is required"
	} else if n, err := strconv.ParseFloat(duration, 64); err != nil {
		errs[FieldDuration] = "Duration must be a number"
	} else if n <= 0 || n != float64(int(n)) {
		errs[FieldDuration] = "Duration must be a positive whole number of days"
	} else if n > MaxDurationDays {
		errs[FieldDuration] = "Duration must be at most " + strconv.Itoa(MaxDurationDays) + " days"
	} else {
		req.DurationDays = int(n)
	}

	startDate := strings.TrimSpace(s.StartDate)
	if startDate == "" {
		errs[FieldStartDate] = "Start date is required"
	} else if d, err := ParseDate(startDate); err != nil {
		errs[FieldStartDate] = "Start date must be formatted yyyy-MM-dd"
	} else {
		req.StartDate = d
	}

	for _, raw := range s.CustomTimes {
		t, err := ParseTimeOfDay(raw)
		if err != nil {
			errs[FieldTimes] = "Times must be formatted HH:MM"
			break
		}
		req.ExplicitTimes = append(req.ExplicitTimes, t)
	}
	if req.Frequency == FrequencyCustom && len(s.CustomTimes) == 0 {
		errs[FieldFrequency] = "At least one time must be set"
	}

	if req.ContactNumber == "" {
		errs[FieldPhone] = "Phone number is required"
	}

	if len(errs) > 0 {
		return ExpandRequest{}, errs
	}
	return req, nil
}
