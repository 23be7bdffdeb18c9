package drop

import (
	"context"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/equipment"
)

// equipmentHandler commits dropped items. The item's effect container (its
// attack actions, AC mutations, resources) is committed first and linked by
// id.
type equipmentHandler struct {
	base  *baseHandler
	items equipment.Repository
}

func (h *equipmentHandler) Handle(ctx context.Context, req *Request) (*Result, error) {
	if err := h.base.validate(req.Payload); err != nil {
		return nil, err
	}

	payload, ok := req.Payload.(*content.EquipmentPayload)
	if !ok {
		return nil, errors.Internalf("payload %T is not an item", req.Payload)
	}

	ownerID := req.Input.TargetCharacterID
	if ownerID == "" {
		return nil, errors.InvalidArgument("target character is required")
	}

	spellsToCommit := h.base.hydrate(ctx, req.Channels.Spells)

	sourceIDs, err := h.base.mintSources(ctx, ownerID, req.Channels.SpellSources)
	if err != nil {
		return nil, err
	}
	resolveSpellRefs(spellsToCommit, sourceIDs)
	if req.Channels.Effects != nil {
		resolveSpellRefs(req.Channels.Effects.Spells, sourceIDs)
	}

	tagGroupID, err := h.base.commitTagGroup(ctx, ownerID, content.CategoryEquipment, req.Channels.Tags)
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

	if err := h.base.commitSpells(ctx, ownerID, tagGroupID, spellsToCommit); err != nil {
		return nil, err
	}

	out, err := h.items.Create(ctx, equipment.CreateInput{
		CharacterID:       ownerID,
		Payload:           *payload,
		EffectContainerID: containerID,
		TagGroupID:        tagGroupID,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Entity:            out.Item,
		TagGroupID:        tagGroupID,
		EffectContainerID: containerID,
		SpellSourceIDs:    sourceIDs,
	}, nil
}
