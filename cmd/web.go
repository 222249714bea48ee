package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huddleup/gameplan/internal/server"
	"github.com/huddleup/gameplan/internal/utils"
	"github.com/huddleup/gameplan/pkg/cache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// webCmd represents the web command
var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the gameplan HTTP API",
	Long: `Start a web server exposing plans, sections, call sheets, practice periods,
scripts, the playbook and per-coach situations. Every /api route except login
needs a bearer token; create accounts with "gameplan user add".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.close()

		var c cache.Cache
		if url := viper.GetString("cache.redis_url"); url != "" {
			redisCache, err := cache.NewRedis(ctx, url, "gameplan:")
			if err != nil {
				return err
			}
			defer redisCache.Close()
			utils.Log.Infof("Caching derived views in Redis")
			c = redisCache
		}

		srv := server.New(s.db, c, server.Config{
			JWTSecret:   []byte(viper.GetString("auth.jwt_secret")),
			TokenTTL:    viper.GetDuration("auth.token_ttl"),
			CORSOrigins: viper.GetStringSlice("server.cors_origins"),
			CacheTTL:    viper.GetDuration("cache.ttl"),
		})
		if viper.GetString("auth.jwt_secret") == "" {
			utils.Log.Warn("auth.jwt_secret is empty, tokens will not survive a restart")
		}
		return srv.Start(ctx, viper.GetString("server.listen"))
	},
}

func init() {
	rootCmd.AddCommand(webCmd)
	webCmd.Flags().StringP("bind", "b", ":9999", "Address to bind the server to")
	viper.BindPFlag("server.listen", webCmd.Flags().Lookup("bind"))
}

