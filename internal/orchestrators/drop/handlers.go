package drop

import (
	"context"
	"log/slog"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/schema"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/effects"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/equipment"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/features"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/progression"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/roster"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/spells"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/tags"
)

// HandlerConfig contains the shared dependencies of the category handlers
type HandlerConfig struct {
	Schemas  *schema.Validator
	Hydrator *Hydrator

	Tags        tags.Repository
	Effects     effects.Repository
	Features    features.Repository
	Spells      spells.Repository
	Equipment   equipment.Repository
	Progression progression.Repository
	Roster      roster.Repository

	// TargetLocator resolves which sheet a monster drop lands on when the
	// caller did not name one (optional)
	TargetLocator TargetLocator
}

// Validate validates the HandlerConfig
func (cfg *HandlerConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Schemas == nil {
		return errors.InvalidArgument("schema validator cannot be nil")
	}
	if cfg.Hydrator == nil {
		return errors.InvalidArgument("hydrator cannot be nil")
	}
	if cfg.Tags == nil {
		return errors.InvalidArgument("tags store cannot be nil")
	}
	if cfg.Effects == nil {
		return errors.InvalidArgument("effects store cannot be nil")
	}
	if cfg.Features == nil {
		return errors.InvalidArgument("features store cannot be nil")
	}
	if cfg.Spells == nil {
		return errors.InvalidArgument("spells store cannot be nil")
	}
	if cfg.Equipment == nil {
		return errors.InvalidArgument("equipment store cannot be nil")
	}
	if cfg.Progression == nil {
		return errors.InvalidArgument("progression store cannot be nil")
	}
	if cfg.Roster == nil {
		return errors.InvalidArgument("roster store cannot be nil")
	}
	return nil
}

// NewHandlers builds the category handler table. The table is constructed
// once at startup and never mutated; the router only reads it.
func NewHandlers(cfg *HandlerConfig) (map[content.Category]Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := &baseHandler{
		schemas:  cfg.Schemas,
		hydrator: cfg.Hydrator,
		tags:     cfg.Tags,
		effects:  cfg.Effects,
		spells:   cfg.Spells,
	}

	progressionFor := func(category content.Category) Handler {
		return &progressionHandler{
			base:        base,
			category:    category,
			features:    cfg.Features,
			progression: cfg.Progression,
		}
	}

	return map[content.Category]Handler{
		content.CategoryClass:      progressionFor(content.CategoryClass),
		content.CategorySubclass:   progressionFor(content.CategorySubclass),
		content.CategoryRace:       progressionFor(content.CategoryRace),
		content.CategoryBackground: progressionFor(content.CategoryBackground),
		content.CategoryFeat:       progressionFor(content.CategoryFeat),
		content.CategoryEquipment: &equipmentHandler{
			base:  base,
			items: cfg.Equipment,
		},
		content.CategorySpell: &spellHandler{
			base: base,
		},
		content.CategoryMonster: &monsterHandler{
			base:    base,
			roster:  cfg.Roster,
			locator: cfg.TargetLocator,
		},
	}, nil
}

// baseHandler carries the steps every category handler runs the same way:
// the schema gate, spell hydration, source minting, reference resolution,
// and the tag group / effect container commits.
type baseHandler struct {
	schemas  *schema.Validator
	hydrator *Hydrator
	tags     tags.Repository
	effects  effects.Repository
	spells   spells.Repository
}

func (b *baseHandler) validate(payload content.Payload) error {
	return b.schemas.Validate(payload)
}

// hydrate expands spell stubs, degrading to the raw stubs when hydration
// fails wholesale
func (b *baseHandler) hydrate(ctx context.Context, stubs []content.Spell) []content.Spell {
	if len(stubs) == 0 {
		return nil
	}
	hydrated, err := b.hydrator.HydrateSpells(ctx, stubs)
	if err != nil {
		return nil
	}
	return hydrated
}

// mintSources commits each declared spell source and returns the minted ids
// in declaration order. Positional references resolve against this order.
func (b *baseHandler) mintSources(ctx context.Context, ownerID string, sources []content.SpellSource) ([]string, error) {
	ids := make([]string, 0, len(sources))
	for _, source := range sources {
		out, err := b.spells.CreateSource(ctx, spells.CreateSourceInput{
			CharacterID: ownerID,
			Source:      source,
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, out.Source.ID)
	}
	return ids, nil
}

// ownerSourceIDs lists the ids of the owner's already-committed sources, in
// commit order
func (b *baseHandler) ownerSourceIDs(ctx context.Context, ownerID string) []string {
	out, err := b.spells.ListSourcesByCharacter(ctx, spells.ListByCharacterInput{CharacterID: ownerID})
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(out.Sources))
	for _, source := range out.Sources {
		ids = append(ids, source.ID)
	}
	return ids
}

func (b *baseHandler) commitTagGroup(ctx context.Context, ownerID string, category content.Category, groupTags []string) (string, error) {
	if len(groupTags) == 0 {
		return "", nil
	}
	out, err := b.tags.Create(ctx, tags.CreateInput{
		CharacterID: ownerID,
		Category:    category,
		Tags:        groupTags,
	})
	if err != nil {
		return "", err
	}
	return out.TagGroup.ID, nil
}

func (b *baseHandler) commitContainer(ctx context.Context, ownerID string, container *content.EffectContainer) (string, error) {
	if container.IsEmpty() {
		return "", nil
	}
	container.Compact()
	out, err := b.effects.Create(ctx, effects.CreateInput{
		CharacterID: ownerID,
		Container:   *container,
	})
	if err != nil {
		return "", err
	}
	return out.Container.ID, nil
}

func (b *baseHandler) commitSpells(ctx context.Context, ownerID, tagGroupID string, toCommit []content.Spell) error {
	for _, spell := range toCommit {
		if _, err := b.spells.CreateSpell(ctx, spells.CreateSpellInput{
			CharacterID: ownerID,
			TagGroupID:  tagGroupID,
			Spell:       spell,
		}); err != nil {
			return err
		}
	}
	return nil
}

// resolveRef maps a pending reference onto the minted id list. An index
// outside the list resolves to the first id; with no ids at all the
// reference is cleared and the spell commits unattached.
func resolveRef(ref content.Ref, ids []string) content.Ref {
	if !ref.IsPending() {
		return ref
	}
	if len(ids) == 0 {
		slog.Warn("No spell sources to resolve reference against", "ref", ref.String())
		return content.Ref{}
	}
	index := ref.Index()
	if index < 0 || index >= len(ids) {
		index = 0
	}
	return content.ResolvedRef(ids[index])
}

// resolveSpellRefs rewrites every pending source reference in place
func resolveSpellRefs(toResolve []content.Spell, ids []string) {
	for i := range toResolve {
		toResolve[i].SpellSourceID = resolveRef(toResolve[i].SpellSourceID, ids)
		if toResolve[i].Container != nil {
			resolveSpellRefs(toResolve[i].Container.Spells, ids)
		}
	}
}
