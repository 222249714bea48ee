package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/huddleup/gameplan/pkg/gameplan"
	"github.com/huddleup/gameplan/pkg/planfile"
	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List, create and manage weekly game plans",
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every game plan ordered by week",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.close()

		plans, err := s.registry.GetGamePlans(cmd.Context())
		if err != nil {
			return err
		}
		if len(plans) == 0 {
			fmt.Println("No game plans yet. Create one with \"gameplan plans add\".")
			return nil
		}
		printPlans(os.Stdout, plans)
		return nil
	},
}

var plansAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a game plan (replaces any plan already holding the week)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()

		plan := planFromFlags(cmd, gameplan.GamePlan{})
		if plan.Week == 0 {
			if plan.Week, err = s.registry.GetNextAvailableWeek(cmd.Context()); err != nil {
				return err
			}
		}
		plan, err = s.registry.AddGamePlan(cmd.Context(), plan)
		if err != nil {
			return err
		}
		if withSections, _ := cmd.Flags().GetBool("init-sections"); withSections {
			if _, err := s.content.InitializeGamePlanData(cmd.Context(), plan.ID, plan.Week, plan.Opponent, plan.Date); err != nil {
				return err
			}
		}
		printPlans(os.Stdout, []gameplan.GamePlan{plan})
		return nil
	},
}

var plansUpdateCmd = &cobra.Command{
	Use:   "update <planID>",
	Short: "Change fields of an existing game plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()

		current, err := s.registry.GetGamePlan(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		plan, err := s.registry.UpdateGamePlan(cmd.Context(), planFromFlags(cmd, current))
		if err != nil {
			return err
		}
		printPlans(os.Stdout, []gameplan.GamePlan{plan})
		return nil
	},
}

var plansDeleteCmd = &cobra.Command{
	Use:   "delete <planID>",
	Short: "Delete a game plan and its sections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.registry.DeleteGamePlan(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted game plan %s\n", args[0])
		return nil
	},
}

var plansCopyCmd = &cobra.Command{
	Use:   "copy <planID>",
	Short: "Copy a game plan and its sections onto another week",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		week, _ := cmd.Flags().GetInt("week")
		opponent, _ := cmd.Flags().GetString("opponent")

		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()

		if week == 0 {
			if week, err = s.registry.GetNextAvailableWeek(cmd.Context()); err != nil {
				return err
			}
		}
		plan, err := s.registry.CopyGamePlan(cmd.Context(), args[0], week, opponent)
		if err != nil {
			return err
		}
		printPlans(os.Stdout, []gameplan.GamePlan{plan})
		return nil
	},
}

var plansNextWeekCmd = &cobra.Command{
	Use:   "next-week",
	Short: "Print the lowest week number without a plan",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.close()

		week, err := s.registry.GetNextAvailableWeek(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(week)
		return nil
	},
}

var plansExportCmd = &cobra.Command{
	Use:   "export <planID>",
	Short: "Write a game plan with its sections and scripts as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.close()

		svc := planfile.Service{Registry: s.registry, Content: s.content, Scripts: s.db}
		f, err := svc.Export(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if output != "" && output != "-" {
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			defer file.Close()
			w = file
		}
		return planfile.Write(w, f)
	},
}

var plansImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create a game plan from a YAML plan file (\"-\" reads stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = os.Stdin
		if args[0] != "-" {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()
			r = file
		}
		f, err := planfile.Read(r)
		if err != nil {
			return err
		}

		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.close()

		svc := planfile.Service{Registry: s.registry, Content: s.content, Scripts: s.db}
		plan, err := svc.Import(cmd.Context(), f)
		if err != nil {
			return err
		}
		printPlans(os.Stdout, []gameplan.GamePlan{plan})
		return nil
	},
}

// planFromFlags overlays the flags the user set onto base.
func planFromFlags(cmd *cobra.Command, base gameplan.GamePlan) gameplan.GamePlan {
	flags := cmd.Flags()
	if flags.Changed("week") {
		base.Week, _ = flags.GetInt("week")
	}
	if flags.Changed("opponent") {
		base.Opponent, _ = flags.GetString("opponent")
	}
	if flags.Changed("date") {
		base.Date, _ = flags.GetString("date")
	}
	if flags.Changed("location") {
		base.Location, _ = flags.GetString("location")
	}
	if flags.Changed("status") {
		status, _ := flags.GetString("status")
		base.Status = gameplan.PlanStatus(status)
	}
	if flags.Changed("weather") {
		base.Weather, _ = flags.GetString("weather")
	}
	if flags.Changed("wind") {
		base.Wind, _ = flags.GetString("wind")
	}
	return base
}

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("week", "w", 0, "Week number (default: next available week)")
	cmd.Flags().StringP("opponent", "o", "", "Opponent name")
	cmd.Flags().StringP("date", "d", "", "Game date (YYYY-MM-DD)")
	cmd.Flags().String("location", "", "Game location, e.g. Home or Away")
	cmd.Flags().String("status", "", "Plan status: planning, ready, completed")
	cmd.Flags().String("weather", "", "Expected weather")
	cmd.Flags().String("wind", "", "Expected wind")
}

func printPlans(out io.Writer, plans []gameplan.GamePlan) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "WEEK\tOPPONENT\tDATE\tLOCATION\tSTATUS\tID")
	for _, p := range plans {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", p.Week, p.Opponent, p.Date, p.Location, p.Status, p.ID)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(plansCmd)
	plansCmd.AddCommand(plansListCmd, plansAddCmd, plansUpdateCmd, plansDeleteCmd,
		plansCopyCmd, plansNextWeekCmd, plansExportCmd, plansImportCmd)

	addPlanFlags(plansAddCmd)
	plansAddCmd.Flags().Bool("init-sections", false, "Also create the default situational sections")
	addPlanFlags(plansUpdateCmd)

	plansCopyCmd.Flags().IntP("week", "w", 0, "Target week (default: next available week)")
	plansCopyCmd.Flags().StringP("opponent", "o", "", "Opponent for the copy")
	plansCopyCmd.MarkFlagRequired("opponent")

	plansExportCmd.Flags().StringP("output", "O", "", "Output file (default: stdout)")
}
