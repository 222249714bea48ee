package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/huddleup/gameplan/pkg/gameplan"
	"github.com/spf13/cobra"
)

var playbookCmd = &cobra.Command{
	Use:   "playbook",
	Short: "The team playbook that scripts and sections draw from",
}

var playbookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List playbook plays",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.close()

		plays, err := s.db.ListPlays(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tFORMATION\tCONCEPT\tTYPE\tTAGS\tID")
		for _, p := range plays {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.Name, p.Formation, p.Concept, p.Type, strings.Join(p.Tags, ","), p.ID)
		}
		return w.Flush()
	},
}

var playbookAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a play to the playbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		play := gameplan.Play{Name: args[0]}
		play.Formation, _ = cmd.Flags().GetString("formation")
		play.Concept, _ = cmd.Flags().GetString("concept")
		play.Type, _ = cmd.Flags().GetString("type")
		play.Tags, _ = cmd.Flags().GetStringSlice("tags")

		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()

		saved, err := s.db.AddPlay(cmd.Context(), play)
		if err != nil {
			return err
		}
		fmt.Printf("Added %q (%s)\n", saved.Name, saved.ID)
		return nil
	},
}

var playbookDeleteCmd = &cobra.Command{
	Use:   "delete <playID>",
	Short: "Delete a play from the playbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()
		return s.db.DeletePlay(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(playbookCmd)
	playbookCmd.AddCommand(playbookListCmd, playbookAddCmd, playbookDeleteCmd)

	playbookAddCmd.Flags().String("formation", "", "Formation")
	playbookAddCmd.Flags().String("concept", "", "Concept")
	playbookAddCmd.Flags().String("type", "", "Play type, e.g. run or pass")
	playbookAddCmd.Flags().StringSlice("tags", nil, "Tags")
}
