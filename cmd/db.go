package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"

	"github.com/huddleup/gameplan/pkg/storage"
	"github.com/spf13/cobra"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the gameplan database",
}

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := dbTarget()
		if err != nil {
			return err
		}

		client, schemaArgs := "sqlite3", []string{dsn, ".schema"}
		if storage.IsPostgresDSN(dsn) {
			client, schemaArgs = "psql", []string{dsn, "-c", `\dt`}
		} else if _, err := os.Stat(dsn); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", dsn)
		}

		clientPath, err := exec.LookPath(client)
		if err != nil {
			return fmt.Errorf("%s command not found in your PATH. Please install it to use the db shell", client)
		}

		// Print schema first
		fmt.Println("--> Database schema:")
		schemaCmd := exec.Command(clientPath, schemaArgs...)
		schemaCmd.Stdout = os.Stdout
		schemaCmd.Stderr = os.Stderr
		if err := schemaCmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: couldn't retrieve schema: %v\n", err)
		}
		fmt.Println("\n--> Starting interactive shell... (Ctrl+D to exit)")

		c := exec.Command(clientPath, dsn)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		return c.Run()
	},
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints how many plans, plays, situations and scripts the database holds.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.close()

		stats, err := s.db.GetStats(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "WHAT\tCOUNT\t")
		fmt.Fprintf(w, "game plans\t%d\t\n", stats.Plans)
		fmt.Fprintf(w, "plays in sections\t%d\t\n", stats.SectionPlays)
		fmt.Fprintf(w, "playbook plays\t%d\t\n", stats.PlaybookPlays)
		fmt.Fprintf(w, "situations\t%d\t\n", stats.Situations)
		fmt.Fprintf(w, "scripts\t%d\t\n", stats.Scripts)
		fmt.Fprintf(w, "users\t%d\t\n", stats.Users)
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(shellCmd)
	dbCmd.AddCommand(statsCmd)
}
