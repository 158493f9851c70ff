package views

import (
	"github.com/wolfman30/medreminder/internal/schedule"
)

// Completed is shown as the next dose once every dose was taken.
const Completed = "Completed"

// MedicineSummary aggregates all reminders for one medicine name.
type MedicineSummary struct {
	Name       string  `json:"name"`
	Dosage     string  `json:"dosage"`
	Progress   float64 `json:"progress"`
	Taken      int     `json:"taken"`
	Total      int     `json:"total"`
	Remaining  int     `json:"remainingDoses"`
	NextDose   string  `json:"nextDose"`
	NextDoseID string  `json:"nextDoseId,omitempty"`
}

// Medicines groups reminders by exact medicine name, in order of first
// appearance. Names are not normalised: "Aspirin" and "aspirin" differ.
func Medicines(rs []schedule.Reminder) []MedicineSummary {
	order := make([]string, 0)
	groups := make(map[string]*MedicineSummary)

	for _, r := range rs {
		g, ok := groups[r.Medicine]
		if !ok {
			g = &MedicineSummary{Name: r.Medicine, Dosage: r.Dosage, NextDose: Completed}
			groups[r.Medicine] = g
			order = append(order, r.Medicine)
		}
		g.Total++
		if r.Taken {
			g.Taken++
		} else if g.NextDoseID == "" {
			g.NextDose = r.Time
			g.NextDoseID = r.ID
		}
	}

	out := make([]MedicineSummary, 0, len(order))
	for _, name := range order {
		g := groups[name]
		g.Remaining = g.Total - g.Taken
		g.Progress = progress(g.Taken, g.Total)
		out = append(out, *g)
	}
	return out
}

func progress(taken, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(taken) / float64(total) * 100
}
