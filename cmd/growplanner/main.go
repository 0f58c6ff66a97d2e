// Command growplanner is the planner front end: it keeps a local profile,
// prints dose recommendations and looks up grow weather through the server.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/grow-planner/internal/logging"
)

var (
	// Global flags
	verbose   bool
	offline   bool
	serverURL string
	token     string
	statePath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "growplanner",
	Short: "Watering, feeding and weather advice for indoor grows",
	Long: `growplanner calculates watering volumes, feed intervals and nutrient
doses from pot size and lamp wattage, and fetches a weather-based grow
suggestion for your city.

Preferences are kept locally and, for signed-in users, mirrored to the
server profile.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.NewConsole(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runShow,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Do not contact the server")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Server base URL (default $GROWPLANNER_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Session token (default $GROWPLANNER_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "Local preferences database (default $GROWPLANNER_STATE)")

	calcCmd.Flags().Float64("pot", 0, "Pot size in liters")
	calcCmd.Flags().Float64("watts", 0, "Lamp wattage")

	envgenCmd.Flags().String("env", ".env", "Path of the .env file to read")
	envgenCmd.Flags().String("out", "static/env.json", "Path of the runtime config to write")

	tokenCmd.Flags().Duration("ttl", 30*24*time.Hour, "Token lifetime")

	rootCmd.AddCommand(showCmd, calcCmd, resetCmd, weatherCmd, clearCmd, envgenCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
