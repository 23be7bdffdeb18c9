package drop

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/transform"
)

// HydratorConfig contains configuration for the spell hydrator
type HydratorConfig struct {
	Client   compendium.Client
	Registry *transform.Registry
	// PreferredBookID selects among multiple editions of the same spell.
	// When no page matches, the first page returned is used instead.
	PreferredBookID string
}

// Validate validates the HydratorConfig
func (cfg *HydratorConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.Registry == nil {
		return errors.InvalidArgument("registry cannot be nil")
	}
	return nil
}

// Hydrator expands lightweight spell stubs into full spell definitions by
// looking each one up in the compendium
type Hydrator struct {
	client          compendium.Client
	registry        *transform.Registry
	preferredBookID string
}

// NewHydrator creates a new spell hydrator
func NewHydrator(cfg *HydratorConfig) (*Hydrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Hydrator{
		client:          cfg.Client,
		registry:        cfg.Registry,
		preferredBookID: cfg.PreferredBookID,
	}, nil
}

// HydrateSpells expands each stub by name. Stubs with no name are dropped
// silently. Per-stub lookups run concurrently and are joined before return.
// A failed lookup degrades that stub to its unhydrated form; a transport
// failure degrades the whole call to an empty result with an error.
func (h *Hydrator) HydrateSpells(ctx context.Context, stubs []content.Spell) ([]content.Spell, error) {
	named := make([]content.Spell, 0, len(stubs))
	for _, stub := range stubs {
		if stub.Name != "" {
			named = append(named, stub)
		}
	}
	if len(named) == 0 {
		return nil, nil
	}

	results := make([]content.Spell, len(named))
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		transportErr error
	)
	for i := range named {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			spell, err := h.hydrateOne(ctx, named[i])
			if err != nil {
				mu.Lock()
				if transportErr == nil {
					transportErr = err
				}
				mu.Unlock()
				return
			}
			results[i] = spell
		}(i)
	}
	wg.Wait()

	if transportErr != nil {
		slog.Error("Spell hydration failed", "error", transportErr)
		return nil, transportErr
	}
	return results, nil
}

// hydrateOne returns a non-nil error only for transport failures; every
// other failure returns the stub unchanged
func (h *Hydrator) hydrateOne(ctx context.Context, stub content.Spell) (content.Spell, error) {
	out, err := h.client.GetPages(ctx, &compendium.GetPagesInput{
		Category: content.CategorySpell,
		Name:     stub.Name,
	})
	if err != nil {
		if errors.IsUnavailable(err) {
			return stub, err
		}
		slog.Warn("Spell lookup failed", "spell", stub.Name, "error", err)
		return stub, nil
	}

	page := compendium.SelectPreferred(out.Pages, h.preferredBookID)
	if page == nil {
		slog.Warn("No compendium page for spell", "spell", stub.Name)
		return stub, nil
	}

	payload, err := h.expand(page)
	if err != nil {
		slog.Warn("Spell page does not expand", "spell", stub.Name, "error", err)
		return stub, nil
	}
	return mergeStub(stub, payload.Spell()), nil
}

func (h *Hydrator) expand(page *compendium.Page) (*content.SpellPayload, error) {
	var (
		payload content.Payload
		err     error
	)
	if raw := page.Properties.String(compendium.PropertyPayload); raw != "" {
		payload, err = transform.DecodeNativePayload(content.CategorySpell, raw)
	} else {
		payload, err = h.registry.Transform(content.CategorySpell, page)
	}
	if err != nil {
		return nil, err
	}
	spell, ok := payload.(*content.SpellPayload)
	if !ok {
		return nil, errors.Internalf("spell page expanded to %T", payload)
	}
	return spell, nil
}

// mergeStub overlays the hydrated spell with the stub's own fields. The stub
// wins on conflict, which lets a caller pin a level or source before
// hydration.
func mergeStub(stub, full content.Spell) content.Spell {
	merged := full
	merged.Name = stub.Name
	if stub.ID != "" {
		merged.ID = stub.ID
	}
	if stub.Level != 0 {
		merged.Level = stub.Level
	}
	if stub.School != "" {
		merged.School = stub.School
	}
	if stub.CastingTime != "" {
		merged.CastingTime = stub.CastingTime
	}
	if stub.Range != "" {
		merged.Range = stub.Range
	}
	if stub.Components != "" {
		merged.Components = stub.Components
	}
	if stub.Duration != "" {
		merged.Duration = stub.Duration
	}
	if stub.Concentration {
		merged.Concentration = true
	}
	if stub.Ritual {
		merged.Ritual = true
	}
	if stub.Description != "" {
		merged.Description = stub.Description
	}
	if !stub.SpellSourceID.IsZero() {
		merged.SpellSourceID = stub.SpellSourceID
	}
	if stub.Container != nil {
		merged.Container = stub.Container
	}
	return merged
}
