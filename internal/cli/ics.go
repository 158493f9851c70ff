package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wolfman30/medreminder/internal/calendar"
)

func newICSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export an expanded prescription as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := expandFromFlags(cmd)
			if err != nil {
				return err
			}
			data, err := calendar.Encode(rs, time.Now())
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d reminders to %s\n", len(rs), out)
			return nil
		},
	}
	addSubmissionFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	return cmd
}
