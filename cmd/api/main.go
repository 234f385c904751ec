package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "issueflow",
	Short: "Ticket tracking API with realtime updates",
	Long: `issueflow serves the ticket API, the realtime websocket feed and
maintenance commands over the configured document backend.

Examples:
  issueflow              # same as "issueflow serve"
  issueflow seed         # load sample tickets into an empty store
  issueflow migrate      # create the postgres documents table`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file before reading config")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}
