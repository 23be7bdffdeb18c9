package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/orchestrators/drop"
)

var (
	dropCategory  string
	dropName      string
	dropBookID    string
	dropCharacter string
	dropSession   string
	dropNewSheet  bool
)

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop a compendium item",
	Long:  `Fetches the named compendium page, normalizes it, and commits the resulting entities. Prints what was committed as JSON.`,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().StringVar(&dropCategory, "category", "", "content category (class, spell, monster, ...)")
	dropCmd.Flags().StringVar(&dropName, "name", "", "item name to drop")
	dropCmd.Flags().StringVar(&dropBookID, "book", "", "book item id selecting the edition")
	dropCmd.Flags().StringVar(&dropCharacter, "character", "", "target character id")
	dropCmd.Flags().StringVar(&dropSession, "session", "", "session id (monster drops)")
	dropCmd.Flags().BoolVar(&dropNewSheet, "new-sheet", false, "replace the sheet instead of appending (monster drops)")
	_ = dropCmd.MarkFlagRequired("category")
	_ = dropCmd.MarkFlagRequired("name")
}

func runDrop(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	category, ok := content.ParseCategory(dropCategory)
	if !ok {
		return fmt.Errorf("unknown category %q", dropCategory)
	}
	bookID := dropBookID
	if bookID == "" {
		bookID = cfg.Compendium.PreferredBookID
	}

	out, err := p.router.Drop(context.Background(), &drop.DropInput{
		Category:          category,
		ItemName:          dropName,
		BookItemID:        bookID,
		SessionID:         dropSession,
		TargetCharacterID: dropCharacter,
		IsNewSheet:        dropNewSheet,
	})
	if err != nil {
		return err
	}
	if !out.Committed {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing committed")
		return nil
	}

	if err := out.TokenTask.Await(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "token update failed: %v\n", err)
	}

	encoded, err := json.MarshalIndent(out.Entity, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode committed entity: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
