// Package main is the entry point for the dmforge CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dmforge",
	Short: "AI Dungeon Master for D&D 5e",
	Long: `dmforge runs an AI-powered Dungeon Master for tabletop D&D campaigns,
with party and character data kept in plain JSON files you can edit by hand.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(checkCmd)
}
