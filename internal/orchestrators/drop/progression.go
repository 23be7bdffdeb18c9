package drop

import (
	"context"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/features"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/progression"
)

// progressionHandler commits the character-building categories: classes,
// subclasses, races, backgrounds, and feats. The committed entity is a
// progression entry linking the features, sources, tag group, and effect
// container minted alongside it.
type progressionHandler struct {
	base        *baseHandler
	category    content.Category
	features    features.Repository
	progression progression.Repository
}

// levelledFeature pairs a feature with the level it is granted at. Flat
// categories commit everything at level 0.
type levelledFeature struct {
	feature content.Feature
	level   int
}

func (h *progressionHandler) Handle(ctx context.Context, req *Request) (*Result, error) {
	if err := h.base.validate(req.Payload); err != nil {
		return nil, err
	}

	ownerID := req.Input.TargetCharacterID
	if ownerID == "" {
		return nil, errors.InvalidArgument("target character is required")
	}

	meta, levelled, err := h.describe(req.Payload)
	if err != nil {
		return nil, err
	}
	for _, feature := range req.Channels.Features {
		levelled = append(levelled, levelledFeature{feature: feature})
	}

	spellsToCommit := h.base.hydrate(ctx, req.Channels.Spells)

	sourceIDs, err := h.base.mintSources(ctx, ownerID, req.Channels.SpellSources)
	if err != nil {
		return nil, err
	}
	for i := range levelled {
		resolveSpellRefs(levelled[i].feature.Spells, sourceIDs)
		if c := levelled[i].feature.Container; c != nil {
			resolveSpellRefs(c.Spells, sourceIDs)
		}
	}
	resolveSpellRefs(spellsToCommit, sourceIDs)
	if req.Channels.Effects != nil {
		resolveSpellRefs(req.Channels.Effects.Spells, sourceIDs)
	}

	tagGroupID, err := h.base.commitTagGroup(ctx, ownerID, h.category, req.Channels.Tags)
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

	featureIDs := make([]string, 0, len(levelled))
	for _, lf := range levelled {
		out, err := h.features.Create(ctx, features.CreateInput{
			CharacterID: ownerID,
			Level:       lf.level,
			TagGroupID:  tagGroupID,
			Feature:     lf.feature,
		})
		if err != nil {
			return nil, err
		}
		featureIDs = append(featureIDs, out.Feature.ID)
	}

	if err := h.base.commitSpells(ctx, ownerID, tagGroupID, spellsToCommit); err != nil {
		return nil, err
	}

	out, err := h.progression.Create(ctx, progression.CreateInput{
		CharacterID:       ownerID,
		Category:          h.category,
		Name:              meta.name,
		HitDie:            meta.hitDie,
		Size:              meta.size,
		ParentClass:       meta.parentClass,
		Description:       meta.description,
		TagGroupID:        tagGroupID,
		EffectContainerID: containerID,
		FeatureIDs:        featureIDs,
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

type progressionMeta struct {
	name        string
	hitDie      string
	size        string
	parentClass string
	description string
}

// describe pulls the category-specific fields and level table out of the
// payload. The payload type is fixed by the category the handler was
// registered under, so a mismatch is an internal defect.
func (h *progressionHandler) describe(payload content.Payload) (progressionMeta, []levelledFeature, error) {
	switch p := payload.(type) {
	case *content.ClassPayload:
		return progressionMeta{
			name:        p.Name,
			hitDie:      p.HitDie,
			description: p.Description,
		}, flatten(p.FeaturesByLevel), nil
	case *content.SubclassPayload:
		return progressionMeta{
			name:        p.Name,
			parentClass: p.ParentClass,
			description: p.Description,
		}, flatten(p.FeaturesByLevel), nil
	case *content.RacePayload:
		return progressionMeta{
			name:        p.Name,
			size:        p.Size,
			description: p.Description,
		}, flatten(p.FeaturesByLevel), nil
	case *content.BackgroundPayload:
		return progressionMeta{name: p.Name, description: p.Description}, nil, nil
	case *content.FeatPayload:
		return progressionMeta{name: p.Name, description: p.Description}, nil, nil
	default:
		return progressionMeta{}, nil, errors.Internalf("payload %T does not belong to category %q", payload, h.category)
	}
}

// flatten orders a level map into commit order: ascending level, declaration
// order within a level
func flatten(byLevel content.FeatureMap) []levelledFeature {
	var out []levelledFeature
	for _, level := range byLevel.Levels() {
		key, _ := content.LevelKey(level)
		for _, feature := range byLevel[key] {
			out = append(out, levelledFeature{feature: feature, level: level})
		}
	}
	return out
}
