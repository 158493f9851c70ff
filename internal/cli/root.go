// Package cli implements the reminderctl commands.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/wolfman30/medreminder/internal/schedule"
)

const (
	formatJSON = "json"
	formatText = "text"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reminderctl",
		Short:         "Preview medication reminder schedules",
		Long:          "Expand a prescription into dose reminders offline, list the frequency table or export a calendar feed.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("format", "f", formatText, "Output format: json or text")

	root.AddCommand(newExpandCmd(), newICSCmd(), newFrequenciesCmd())
	return root
}

func addSubmissionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("medicine", "m", "", "Medicine name (required)")
	cmd.Flags().StringP("dosage", "d", "", "Dosage, e.g. 500mg (required)")
	cmd.Flags().String("frequency", schedule.FrequencyOnce, "once, twice, thrice, four or custom")
	cmd.Flags().IntP("days", "n", 1, "Number of days")
	cmd.Flags().String("start", time.Now().Format(schedule.DateLayout), "Start date (yyyy-MM-dd)")
	cmd.Flags().StringSlice("times", nil, "Explicit dose times as HH:MM, comma separated")
	cmd.Flags().String("phone", "", "Contact number")

	_ = cmd.MarkFlagRequired("medicine")
	_ = cmd.MarkFlagRequired("dosage")
}

// expandFromFlags validates the flags the same way the API validates a form,
// except that the contact number is optional offline.
func expandFromFlags(cmd *cobra.Command) ([]schedule.Reminder, error) {
	medicine, _ := cmd.Flags().GetString("medicine")
	dosage, _ := cmd.Flags().GetString("dosage")
	frequency, _ := cmd.Flags().GetString("frequency")
	days, _ := cmd.Flags().GetInt("days")
	start, _ := cmd.Flags().GetString("start")
	times, _ := cmd.Flags().GetStringSlice("times")
	phone, _ := cmd.Flags().GetString("phone")

	sub := schedule.Submission{
		MedicineName: medicine,
		Dosage:       dosage,
		Frequency:    frequency,
		Duration:     fmt.Sprint(days),
		StartDate:    start,
		CustomTimes:  times,
		PhoneNumber:  phone,
	}
	if phone == "" {
		sub.PhoneNumber = "offline"
	}
	req, err := sub.Validate()
	if err != nil {
		return nil, err
	}
	req.ContactNumber = phone
	return schedule.Expand(req)
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatJSON, formatText:
		return format, nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

func writeText(w io.Writer, rs []schedule.Reminder) {
	for _, r := range rs {
		fmt.Fprintf(w, "%s  %-8s  %s %s  (%s)\n", r.Date, r.Time, r.Medicine, r.Dosage, r.ID)
	}
	fmt.Fprintf(w, "%d reminders\n", len(rs))
}
