package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newExpandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Expand a prescription into dose reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			rs, err := expandFromFlags(cmd)
			if err != nil {
				return err
			}
			if format == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rs)
			}
			writeText(cmd.OutOrStdout(), rs)
			return nil
		},
	}
	addSubmissionFlags(cmd)
	return cmd
}
