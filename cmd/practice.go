package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/huddleup/gameplan/pkg/derive"
	"github.com/spf13/cobra"
)

var practiceCmd = &cobra.Command{
	Use:   "practice <planID>",
	Short: "Print the practice periods generated from a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.close()

		data, err := s.content.GetGamePlanData(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		periods := derive.GeneratePracticePeriods(data)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(periods)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, p := range periods {
			fmt.Fprintf(w, "%d. %s\t%d-%d min\t%s\n", p.Number, p.Name, p.StartMinute, p.StartMinute+p.Duration, p.Focus)
			for _, play := range p.Plays {
				fmt.Fprintf(w, "   %s\t%s\t%s\n", play.Name, play.Formation, play.Concept)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(practiceCmd)
	practiceCmd.Flags().Bool("json", false, "Print the periods as JSON")
}
