// Package cli wires the hearthlight commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hearthlight",
	Short: "Dialogue server for the Hearthlight browser RPG",
	Long: `Hearthlight serves branching NPC dialogue to the browser client.

Content lives in JSON or YAML files mapping node keys to nodes:

  innkeeper.greet:
    speaker: MARTA THE INNKEEPER
    text: Welcome, traveller.
    options:
      - label: A room for the night
        next: innkeeper.room
      - label: Nothing, thanks`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
