// Command bracketctl plays the bracket demo from a terminal and talks to a
// running server over gRPC.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Billy-Davies-2/bracket-champs/internal/config"
	"github.com/Billy-Davies-2/bracket-champs/internal/dal"
	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
	"github.com/Billy-Davies-2/bracket-champs/internal/screens"
)

var (
	logLevel     string
	featuresFile string
	gamesStarted bool
)

var rootCmd = &cobra.Command{
	Use:   "bracketctl",
	Short: "Bracket Champs from the terminal",
	Long: `Play through the matchups, browse the leaderboards and bracket
tracker, share your picks, or drive a running server over gRPC.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&featuresFile, "features", "", "YAML file overriding the demo switches")
	rootCmd.PersistentFlags().BoolVar(&gamesStarted, "live", false, "Treat the games as started")

	rootCmd.AddCommand(playCmd, shareCmd, bracketCmd, leaderboardCmd, remoteCmd)
}

// loadEnv builds the screen environment from the seed catalog and the flags
func loadEnv() (screens.Env, error) {
	features := config.DefaultFeatures()
	if featuresFile != "" {
		if err := features.LoadFile(featuresFile); err != nil {
			return screens.Env{}, err
		}
	}
	if gamesStarted {
		features.GamesStarted = true
	}
	return screens.Env{Catalog: dal.DefaultCatalog(), Features: features}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
