package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/orchestrators/drop"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/idgen"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/redis"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/schema"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/effects"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/equipment"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/features"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/progression"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/roster"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/spells"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/tags"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/transform"
)

// pipeline bundles everything a CLI command needs to run drops
type pipeline struct {
	router   *drop.Router
	hydrator *drop.Hydrator
}

// logTokenClient stands in for the table surface: it logs the update the
// pipeline would push
type logTokenClient struct{}

func (c *logTokenClient) UpdateToken(_ context.Context, input *drop.UpdateTokenInput) error {
	slog.Info("Token update",
		"session_id", input.SessionID,
		"entry_id", input.EntryID,
		"image", input.ImageName)
	return nil
}

func buildPipeline(cfg *Config) (*pipeline, error) {
	client, err := compendium.NewClient(&compendium.Config{
		BaseURL:     cfg.Compendium.BaseURL,
		HTTPTimeout: cfg.Compendium.HTTPTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create compendium client: %w", err)
	}

	registry := transform.NewRegistry()
	schemas, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to build schemas: %w", err)
	}

	hydrator, err := drop.NewHydrator(&drop.HydratorConfig{
		Client:          client,
		Registry:        registry,
		PreferredBookID: cfg.Compendium.PreferredBookID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create hydrator: %w", err)
	}

	tagStore, err := tags.NewMemory(&tags.MemoryConfig{IDGenerator: idgen.NewPrefixed("tag")})
	if err != nil {
		return nil, err
	}
	effectStore, err := effects.NewMemory(&effects.MemoryConfig{IDGenerator: idgen.NewPrefixed("fx")})
	if err != nil {
		return nil, err
	}
	featureStore, err := features.NewMemory(&features.MemoryConfig{IDGenerator: idgen.NewPrefixed("feat")})
	if err != nil {
		return nil, err
	}
	spellStore, err := spells.NewMemory(&spells.MemoryConfig{IDGenerator: idgen.NewPrefixed("spell")})
	if err != nil {
		return nil, err
	}
	equipmentStore, err := equipment.NewMemory(&equipment.MemoryConfig{IDGenerator: idgen.NewPrefixed("item")})
	if err != nil {
		return nil, err
	}
	progressionStore, err := progression.NewMemory(&progression.MemoryConfig{IDGenerator: idgen.NewPrefixed("prog")})
	if err != nil {
		return nil, err
	}
	rosterStore, err := buildRosterStore(cfg)
	if err != nil {
		return nil, err
	}

	handlers, err := drop.NewHandlers(&drop.HandlerConfig{
		Schemas:     schemas,
		Hydrator:    hydrator,
		Tags:        tagStore,
		Effects:     effectStore,
		Features:    featureStore,
		Spells:      spellStore,
		Equipment:   equipmentStore,
		Progression: progressionStore,
		Roster:      rosterStore,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build handlers: %w", err)
	}

	bus := events.NewBus()
	updater, err := drop.NewTokenUpdater(&drop.TokenUpdaterConfig{
		Client: &logTokenClient{},
		Bus:    bus,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token updater: %w", err)
	}

	router, err := drop.NewRouter(&drop.Config{
		Client:       client,
		Registry:     registry,
		Handlers:     handlers,
		Bus:          bus,
		TokenUpdater: updater,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	return &pipeline{
		router:   router,
		hydrator: hydrator,
	}, nil
}

func buildRosterStore(cfg *Config) (roster.Repository, error) {
	if cfg.Redis.Endpoint == "" {
		return roster.NewMemory(&roster.MemoryConfig{IDGenerator: idgen.NewPrefixed("npc")})
	}

	client, err := redis.NewClient(cfg.Redis.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return roster.NewRedis(&roster.RedisConfig{
		Client:      client,
		IDGenerator: idgen.NewPrefixed("npc"),
		TTL:         cfg.Redis.RosterTTL,
	})
}
