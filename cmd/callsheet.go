package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/huddleup/gameplan/pkg/derive"
	"github.com/spf13/cobra"
)

var callsheetCmd = &cobra.Command{
	Use:   "callsheet <planID>",
	Short: "Print the game-day call sheet of a plan",
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
		sheet := derive.GenerateCallSheet(data)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sheet)
		}

		fmt.Printf("Week %d vs %s  %s\n\n", sheet.Week, sheet.Opponent, sheet.Date)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, sec := range sheet.Sections {
			fmt.Fprintf(w, "%s\t\t\t\t\n", strings.ToUpper(sec.Title))
			if len(sec.Plays) == 0 {
				fmt.Fprintln(w, "  -\t\t\t\t")
			}
			for _, p := range sec.Plays {
				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", p.Name, p.Formation, p.Concept, p.Personnel, p.Hash)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(callsheetCmd)
	callsheetCmd.Flags().Bool("json", false, "Print the call sheet as JSON")
}
