package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL  string
	jsonOutput bool
	client     *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "roadctl",
		Short: "CLI tool for the Crazy Road game server",
		Long: `roadctl is a CLI tool for querying a running Crazy Road server.

It covers the read-only operational surface: liveness, the persistent
best-time leaderboard, and the live score board.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client = NewClient(serverURL)
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "Server URL (env: CRAZYROAD_SERVER)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print raw JSON instead of text")

	// Add subcommands
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newScoreboardCmd())

	return rootCmd
}

func defaultServerURL() string {
	if url := os.Getenv("CRAZYROAD_SERVER"); url != "" {
		return url
	}
	return "http://localhost:10000"
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
