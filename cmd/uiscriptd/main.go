// Command uiscriptd is the interpreter's process entrypoint: "serve" starts
// the HTTP server (spec.md §6), "run" executes a single script file once
// and exits.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	exit       = os.Exit
	configPath string
)

func main() {
	// Load .env as early as possible.
	_ = godotenv.Load()

	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates the root 'uiscriptd' command with its persistent
// --config flag and serve/run subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{Use: "uiscriptd"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "uiscript.config.json", "Path to config JSON")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newRunCmd(),
	)
	return rootCmd
}
