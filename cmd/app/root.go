package app

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "market",
	Short: "Dubuque Farmers' Market operations API",
	Long: `Serves the vendor map, stall assignments, market calendar and
musician, volunteer and non-profit signups.

Without a subcommand the HTTP server is started.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to the YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
