package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wolfman30/medreminder/internal/schedule"
)

var frequencyOrder = []string{
	schedule.FrequencyOnce,
	schedule.FrequencyTwice,
	schedule.FrequencyThrice,
	schedule.FrequencyFour,
}

func newFrequenciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "frequencies",
		Short: "List the frequency labels and their dose times",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			table := make(map[string][]string, len(frequencyOrder))
			for _, label := range frequencyOrder {
				times, _ := schedule.TimesFor(label)
				for _, t := range times {
					table[label] = append(table[label], t.String())
				}
			}
			if format == formatJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(table)
			}
			for _, label := range frequencyOrder {
				fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s\n", label, strings.Join(table[label], ", "))
			}
			return nil
		},
	}
}
