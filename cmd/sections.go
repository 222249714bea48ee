package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/huddleup/gameplan/pkg/gameplan"
	"github.com/huddleup/gameplan/pkg/reorder"
	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Work with the situational sections of a game plan",
}

var sectionsShowCmd = &cobra.Command{
	Use:   "show <planID>",
	Short: "Print every section of a plan with its plays",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.close()

		data, err := s.content.GetGamePlanData(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("%w (run \"gameplan sections init %s\" first)", err, args[0])
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, sec := range data.Sections {
			fmt.Fprintf(w, "[%d] %s (%s)\t%s\n", sec.Priority, sec.Title, sec.ID, sec.InstallStatus)
			for i, p := range sec.Plays {
				fmt.Fprintf(w, "  %d. %s\t%s\t%s\t%s\n", i, p.Name, p.Formation, p.Concept, p.ID)
			}
		}
		return w.Flush()
	},
}

var sectionsInitCmd = &cobra.Command{
	Use:   "init <planID>",
	Short: "Create the default sections for a plan (no-op if they exist)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()

		data, err := ensureData(cmd.Context(), s, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Plan %s has %d sections\n", data.ID, len(data.Sections))
		return nil
	},
}

var sectionsAddPlayCmd = &cobra.Command{
	Use:   "add-play <planID> <sectionID>",
	Short: "Add a play to a section, either new or copied from the playbook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fromPlaybook, _ := cmd.Flags().GetString("from-playbook")

		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()

		var play gameplan.Play
		if fromPlaybook != "" {
			found, err := s.db.PlaysByID(cmd.Context(), []string{fromPlaybook})
			if err != nil {
				return err
			}
			p, ok := found[fromPlaybook]
			if !ok {
				return fmt.Errorf("playbook play %s: %w", fromPlaybook, gameplan.ErrNotFound)
			}
			play = p
		} else {
			play.Name, _ = cmd.Flags().GetString("name")
			play.Formation, _ = cmd.Flags().GetString("formation")
			play.Concept, _ = cmd.Flags().GetString("concept")
			play.Tags, _ = cmd.Flags().GetStringSlice("tags")
		}

		if _, err := ensureData(cmd.Context(), s, args[0]); err != nil {
			return err
		}
		added, err := s.content.AddPlayToSection(cmd.Context(), args[0], args[1], play)
		if err != nil {
			return err
		}
		fmt.Printf("Added %q to %s (%s)\n", added.Name, args[1], added.ID)
		return nil
	},
}

var sectionsRemovePlayCmd = &cobra.Command{
	Use:   "remove-play <planID> <sectionID> <playID>",
	Short: "Remove a play from a section",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()
		return s.content.RemovePlayFromSection(cmd.Context(), args[0], args[1], args[2])
	},
}

var sectionsMoveCmd = &cobra.Command{
	Use:   "move <planID> <fromSection:index> <toSection:index>",
	Short: "Move a play within or between sections",
	Example: `  gameplan sections move $PLAN 1st-10:2 1st-10:0
  gameplan sections move $PLAN 3rd-short:0 goal-line:1`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parsePosition(args[1])
		if err != nil {
			return err
		}
		to, err := parsePosition(args[2])
		if err != nil {
			return err
		}

		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()
		return s.content.MovePlay(cmd.Context(), args[0], from, to)
	},
}

var sectionsStatusCmd = &cobra.Command{
	Use:   "status <planID> <sectionID> <not-started|in-progress|completed>",
	Short: "Set the install status of a section",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()
		return s.content.UpdateSectionInstallStatus(cmd.Context(), args[0], args[1], gameplan.InstallStatus(args[2]))
	},
}

// ensureData returns a plan's sections, creating the defaults on first use.
func ensureData(ctx context.Context, s *session, planID string) (gameplan.GamePlanData, error) {
	plan, err := s.registry.GetGamePlan(ctx, planID)
	if err != nil {
		return gameplan.GamePlanData{}, err
	}
	return s.content.InitializeGamePlanData(ctx, plan.ID, plan.Week, plan.Opponent, plan.Date)
}

// parsePosition reads "section:index".
func parsePosition(arg string) (reorder.Position, error) {
	i := strings.LastIndex(arg, ":")
	if i <= 0 {
		return reorder.Position{}, fmt.Errorf("position %q must look like section:index", arg)
	}
	idx, err := strconv.Atoi(arg[i+1:])
	if err != nil {
		return reorder.Position{}, fmt.Errorf("position %q: bad index: %v", arg, err)
	}
	return reorder.Position{Container: arg[:i], Index: idx}, nil
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
	sectionsCmd.AddCommand(sectionsShowCmd, sectionsInitCmd, sectionsAddPlayCmd,
		sectionsRemovePlayCmd, sectionsMoveCmd, sectionsStatusCmd)

	sectionsAddPlayCmd.Flags().String("name", "", "Play name")
	sectionsAddPlayCmd.Flags().String("formation", "", "Formation, e.g. \"Shotgun Trips Right\"")
	sectionsAddPlayCmd.Flags().String("concept", "", "Concept, e.g. \"Mesh\"")
	sectionsAddPlayCmd.Flags().StringSlice("tags", nil, "Tags, e.g. left-hash,shot")
	sectionsAddPlayCmd.Flags().String("from-playbook", "", "Copy this playbook play instead of describing a new one")
}
