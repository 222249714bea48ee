package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/huddleup/gameplan/pkg/gameplan"
	"github.com/spf13/cobra"
)

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "Ordered play scripts attached to a game plan",
}

var scriptsListCmd = &cobra.Command{
	Use:   "list <planID>",
	Short: "List the scripts of a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.close()

		scripts, err := s.db.ListScripts(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tPLAYS\tID")
		for _, sc := range scripts {
			fmt.Fprintf(w, "%s\t%d\t%s\n", sc.Name, len(sc.Plays), sc.ID)
		}
		return w.Flush()
	},
}

var scriptsAddCmd = &cobra.Command{
	Use:   "add <planID> <name> [playID...]",
	Short: "Create a script from playbook play ids",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()

		if _, err := s.registry.GetGamePlan(cmd.Context(), args[0]); err != nil {
			return err
		}
		script, err := s.db.PutScript(cmd.Context(), gameplan.PlayScript{
			PlanID: args[0],
			Name:   args[1],
			Plays:  args[2:],
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created script %q (%s)\n", script.Name, script.ID)
		return nil
	},
}

var scriptsShowCmd = &cobra.Command{
	Use:   "show <scriptID>",
	Short: "Print a script with its plays resolved from the playbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.close()

		script, err := s.db.GetScript(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		plays, err := s.db.ResolveScript(cmd.Context(), script)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d of %d plays in playbook)\n", script.Name, len(plays), len(script.Plays))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for i, p := range plays {
			fmt.Fprintf(w, "%2d. %s\t%s\t%s\n", i+1, p.Name, p.Formation, p.Concept)
		}
		return w.Flush()
	},
}

var scriptsMoveCmd = &cobra.Command{
	Use:   "move <scriptID> <from> <to>",
	Short: "Move the play at index from to index to",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad from index %q", args[1])
		}
		to, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("bad to index %q", args[2])
		}

		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()

		_, err = s.db.ReorderScript(cmd.Context(), args[0], from, to)
		return err
	},
}

var scriptsDeleteCmd = &cobra.Command{
	Use:   "delete <scriptID>",
	Short: "Delete a script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()
		return s.db.DeleteScript(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(scriptsCmd)
	scriptsCmd.AddCommand(scriptsListCmd, scriptsAddCmd, scriptsShowCmd, scriptsMoveCmd, scriptsDeleteCmd)
}
