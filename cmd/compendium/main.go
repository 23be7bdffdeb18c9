// Package main is the entry point for the compendium pipeline CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "compendium",
	Short: "Compendium drop pipeline",
	Long:  `Fetches compendium pages, normalizes them, and commits the resulting entities through the drop pipeline.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(hydrateCmd)
}
