package drop

import (
	"context"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/spells"
)

// spellHandler commits a dropped spell. Source references resolve against
// the sources declared alongside the spell when there are any, otherwise
// against the target's already-committed sources in commit order.
//
// Unlike the other handlers, the data-effects container is not committed to
// the effects store: a spell's container travels inside the spell entity,
// where toggling it follows the spell.
type spellHandler struct {
	base *baseHandler
}

func (h *spellHandler) Handle(ctx context.Context, req *Request) (*Result, error) {
	if err := h.base.validate(req.Payload); err != nil {
		return nil, err
	}

	payload, ok := req.Payload.(*content.SpellPayload)
	if !ok {
		return nil, errors.Internalf("payload %T is not a spell", req.Payload)
	}

	ownerID := req.Input.TargetCharacterID
	if ownerID == "" {
		return nil, errors.InvalidArgument("target character is required")
	}

	// The container rides inside the spell entity; see the handler comment
	spell := payload.Spell()
	spell.Container = req.Channels.Effects

	extraSpells := h.base.hydrate(ctx, req.Channels.Spells)

	sourceIDs, err := h.base.mintSources(ctx, ownerID, req.Channels.SpellSources)
	if err != nil {
		return nil, err
	}
	if len(sourceIDs) == 0 {
		sourceIDs = h.base.ownerSourceIDs(ctx, ownerID)
	}

	// A spell dropped without an explicit source attaches to the target's
	// first source
	if spell.SpellSourceID.IsZero() && len(sourceIDs) > 0 {
		spell.SpellSourceID = content.PendingSource(0)
	}
	resolveSpellRefs(extraSpells, sourceIDs)
	spell.SpellSourceID = resolveRef(spell.SpellSourceID, sourceIDs)
	if spell.Container != nil {
		resolveSpellRefs(spell.Container.Spells, sourceIDs)
	}

	tagGroupID, err := h.base.commitTagGroup(ctx, ownerID, content.CategorySpell, req.Channels.Tags)
	if err != nil {
		return nil, err
	}

	if err := h.base.commitSpells(ctx, ownerID, tagGroupID, extraSpells); err != nil {
		return nil, err
	}

	out, err := h.base.spells.CreateSpell(ctx, spells.CreateSpellInput{
		CharacterID: ownerID,
		TagGroupID:  tagGroupID,
		Spell:       spell,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Entity:         out.Spell,
		TagGroupID:     tagGroupID,
		SpellSourceIDs: sourceIDs,
	}, nil
}
