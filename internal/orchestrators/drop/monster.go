package drop

import (
	"context"
	"fmt"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/roster"
)

// TargetLocator resolves which sheet an NPC drop lands on when the caller
// did not name a target: the nearest NPC-scoped sheet to the drop position.
type TargetLocator interface {
	Locate(ctx context.Context, sessionID string, position Point) (string, bool)
}

// monsterHandler instantiates a dropped monster into the session roster.
// IsNewSheet selects full-replacement semantics (the entry becomes the
// sheet); otherwise the entry is appended as a companion of the target.
type monsterHandler struct {
	base    *baseHandler
	roster  roster.Repository
	locator TargetLocator
}

func (h *monsterHandler) Handle(ctx context.Context, req *Request) (*Result, error) {
	if err := h.base.validate(req.Payload); err != nil {
		return nil, err
	}

	payload, ok := req.Payload.(*content.MonsterPayload)
	if !ok {
		return nil, errors.Internalf("payload %T is not a monster", req.Payload)
	}

	if req.Input.SessionID == "" {
		return nil, errors.InvalidArgument("session is required for monster drops")
	}

	targetID := req.Input.TargetCharacterID
	if targetID == "" && req.Input.Position != nil && h.locator != nil {
		if located, found := h.locator.Locate(ctx, req.Input.SessionID, *req.Input.Position); found {
			targetID = located
		}
	}

	// Tag groups, containers, and sources minted for an NPC are owned by the
	// target sheet when one exists, otherwise by the session
	ownerID := targetID
	if ownerID == "" {
		ownerID = req.Input.SessionID
	}

	h.hydrateSpellLists(ctx, payload)

	sources := monsterSources(payload)
	sourceIDs, err := h.base.mintSources(ctx, ownerID, sources)
	if err != nil {
		return nil, err
	}
	h.attachSources(payload, sourceIDs)
	extraSpells := h.base.hydrate(ctx, req.Channels.Spells)
	resolveSpellRefs(extraSpells, sourceIDs)
	if req.Channels.Effects != nil {
		resolveSpellRefs(req.Channels.Effects.Spells, sourceIDs)
	}

	tagGroupID, err := h.base.commitTagGroup(ctx, ownerID, content.CategoryMonster, req.Channels.Tags)
	if err != nil {
		return nil, err
	}

	containerID := ""
	if req.Channels.Effects != nil {
		containerID, err = h.base.commitContainer(ctx, ownerID, req.Channels.Effects)
		if err != nil {
			return nil, err
		}
	}

	if err := h.base.commitSpells(ctx, ownerID, tagGroupID, extraSpells); err != nil {
		return nil, err
	}

	out, err := h.roster.Create(ctx, roster.CreateInput{
		SessionID:         req.Input.SessionID,
		Name:              payload.Name,
		Monster:           payload,
		Replace:           req.Input.IsNewSheet,
		TargetCharacterID: targetID,
		TagGroupID:        tagGroupID,
		EffectContainerID: containerID,
		SpellSourceIDs:    sourceIDs,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Entity:            out.Entry,
		TagGroupID:        tagGroupID,
		EffectContainerID: containerID,
		SpellSourceIDs:    sourceIDs,
	}, nil
}

// hydrateSpellLists expands the stubs in the monster's spellcasting trait
// and innate groups
func (h *monsterHandler) hydrateSpellLists(ctx context.Context, payload *content.MonsterPayload) {
	if payload.Spellcasting != nil {
		payload.Spellcasting.Spells = h.base.hydrate(ctx, payload.Spellcasting.Spells)
	}
	for i := range payload.InnateSpells {
		payload.InnateSpells[i].Spells = h.base.hydrate(ctx, payload.InnateSpells[i].Spells)
	}
}

// monsterSources derives the spell sources a monster declares: one for its
// spellcasting trait, one per innate frequency group, in that order
func monsterSources(payload *content.MonsterPayload) []content.SpellSource {
	var sources []content.SpellSource
	if sc := payload.Spellcasting; sc != nil {
		sources = append(sources, content.SpellSource{
			Name:       "Spellcasting",
			Ability:    sc.Ability,
			SaveDC:     sc.SaveDC,
			AttackMod:  sc.AttackBonus,
			IsPrepared: true,
		})
	}
	for _, group := range payload.InnateSpells {
		sources = append(sources, content.SpellSource{
			Name: fmt.Sprintf("Innate Spellcasting (%s)", group.Frequency),
		})
	}
	return sources
}

// attachSources points each spell list at its own minted source, in the
// order monsterSources declared them
func (h *monsterHandler) attachSources(payload *content.MonsterPayload, ids []string) {
	next := 0
	if payload.Spellcasting != nil {
		attachGroup(payload.Spellcasting.Spells, ids, next)
		next++
	}
	for i := range payload.InnateSpells {
		attachGroup(payload.InnateSpells[i].Spells, ids, next)
		next++
	}
}

func attachGroup(group []content.Spell, ids []string, index int) {
	for i := range group {
		if group[i].SpellSourceID.IsZero() {
			group[i].SpellSourceID = content.PendingSource(index)
		}
		group[i].SpellSourceID = resolveRef(group[i].SpellSourceID, ids)
	}
}
