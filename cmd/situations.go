package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/huddleup/gameplan/internal/utils"
	"github.com/huddleup/gameplan/pkg/apiclient"
	"github.com/huddleup/gameplan/pkg/autosave"
	"github.com/huddleup/gameplan/pkg/gameplan"
	"github.com/huddleup/gameplan/pkg/planfile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var situationsCmd = &cobra.Command{
	Use:   "situations",
	Short: "Sync your situations with a gameplan server",
	Long: `Situations belong to a coach account on a gameplan server ("gameplan web").
The server is read from api.url and the account from api.username / api.password.`,
}

var situationsPullCmd = &cobra.Command{
	Use:   "pull [file]",
	Short: "Download your situations as YAML (default: stdout)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiLogin(cmd.Context())
		if err != nil {
			return err
		}
		situations, err := client.Situations(cmd.Context())
		if err != nil {
			return err
		}
		if len(args) == 0 || args[0] == "-" {
			return planfile.WriteSituations(os.Stdout, situations)
		}
		return writeSituationsFile(args[0], situations)
	},
}

var situationsPushCmd = &cobra.Command{
	Use:   "push <file>",
	Short: "Replace your situations on the server with the file contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		situations, err := readSituationsFile(args[0])
		if err != nil {
			return err
		}
		client, err := apiLogin(cmd.Context())
		if err != nil {
			return err
		}
		saved, err := client.ReplaceSituations(cmd.Context(), situations)
		if err != nil {
			return err
		}
		fmt.Printf("Pushed %d situations\n", len(saved))
		return nil
	},
}

var situationsSyncCmd = &cobra.Command{
	Use:   "sync <file>",
	Short: "Watch a situations file and push every change to the server",
	Long: `sync pulls your situations into the file if it does not exist yet, then watches it.
Saves are pushed after the file has been quiet for --delay; bursts of edits
become a single push of the latest content. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delay, _ := cmd.Flags().GetDuration("delay")
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, err := apiLogin(ctx)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			situations, err := client.Situations(ctx)
			if err != nil {
				return err
			}
			if err := writeSituationsFile(path, situations); err != nil {
				return err
			}
			utils.Log.Infof("Pulled %d situations into %s", len(situations), path)
		}

		saver := autosave.New(func(ctx context.Context, situations []gameplan.Situation) error {
			saved, err := client.ReplaceSituations(ctx, situations)
			if err != nil {
				return err
			}
			utils.Log.Infof("Pushed %d situations", len(saved))
			return nil
		}, autosave.WithDelay(delay))
		defer saver.Close(context.Background())

		return watchSituations(ctx, path, saver)
	},
}

// watchSituations schedules a push each time path is written. The parent
// directory is watched so editors that save by rename are seen too.
func watchSituations(ctx context.Context, path string, saver *autosave.Saver[[]gameplan.Situation]) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	utils.Log.Infof("Watching %s", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			situations, err := readSituationsFile(path)
			if err != nil {
				utils.Log.WithError(err).Warn("Skipping unreadable situations file")
				continue
			}
			utils.Log.Debugf("%s changed, %d situations", path, len(situations))
			if err := saver.Schedule(situations); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			utils.Log.WithError(err).Warn("File watcher error")
		}
	}
}

// apiLogin returns a client logged in with the configured account.
func apiLogin(ctx context.Context) (*apiclient.Client, error) {
	username := viper.GetString("api.username")
	password := viper.GetString("api.password")
	if username == "" || password == "" {
		return nil, errors.New("api.username and api.password must be set (config file or GAMEPLAN_API_USERNAME / GAMEPLAN_API_PASSWORD)")
	}
	client := apiclient.New(viper.GetString("api.url"))
	if _, err := client.Login(ctx, username, password); err != nil {
		return nil, fmt.Errorf("logging in to %s: %w", viper.GetString("api.url"), err)
	}
	return client, nil
}

func readSituationsFile(path string) ([]gameplan.Situation, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return planfile.ReadSituations(bytes.NewReader(b))
}

func writeSituationsFile(path string, situations []gameplan.Situation) error {
	var buf bytes.Buffer
	if err := planfile.WriteSituations(&buf, situations); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func init() {
	rootCmd.AddCommand(situationsCmd)
	situationsCmd.AddCommand(situationsPullCmd, situationsPushCmd, situationsSyncCmd)
	situationsSyncCmd.Flags().Duration("delay", autosave.DefaultDelay, "Quiet period before pushing changes")
}
