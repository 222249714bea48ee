package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huddleup/gameplan/internal/utils"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `                               _
  __ _  __ _ _ __ ___   ___ _ __ | | __ _ _ __
 / _' |/ _' | '_ ' _ \ / _ \ '_ \| |/ _' | '_ \
| (_| | (_| | | | | | |  __/ |_) | | (_| | | | |
 \__, |\__,_|_| |_| |_|\___| .__/|_|\__,_|_| |_|
 |___/                     |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gameplan",
	Short: "Weekly football game plans, call sheets and practice scripts.",
	Long: LOGO + `gameplan keeps one offensive game plan per week: situational sections of plays,
install progress, play scripts and the call sheet and practice periods derived from them.

Run "gameplan web" to serve the same data over an authenticated HTTP API.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gameplan.yaml)")

	// Global flags
	rootCmd.PersistentFlags().String("db", "", "Database path or postgres:// URL (default: ~/.config/gameplan/gameplan.sqlite)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	viper.BindPFlag("db.path", rootCmd.PersistentFlags().Lookup("db"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".gameplan")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("GAMEPLAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values for all keys
	viper.SetDefault("db.path", "")
	viper.SetDefault("server.listen", ":9999")
	viper.SetDefault("server.cors_origins", []string{"*"})
	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("auth.token_ttl", "24h")
	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.ttl", "10m")
	viper.SetDefault("api.url", "http://localhost:9999")
	viper.SetDefault("api.username", "")
	viper.SetDefault("api.password", "")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.gameplan.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error creating config file: %s\n", err)
			}
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
