package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

var hydrateCmd = &cobra.Command{
	Use:   "hydrate [spell name]...",
	Short: "Hydrate spell stubs by name",
	Long:  `Looks each named spell up in the compendium and prints the expanded definitions as JSON.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHydrate,
}

func runHydrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	stubs := make([]content.Spell, 0, len(args))
	for _, name := range args {
		stubs = append(stubs, content.Spell{Name: name})
	}

	hydrated, err := p.hydrator.HydrateSpells(context.Background(), stubs)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(hydrated, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode spells: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
