package transform

import (
	"encoding/json"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
)

//go:generate mockgen -destination=mock/mock_transformer.go -package=transformmock github.com/Roll20/roll20-beacon-sheets-sub000/internal/transform Transformer

// Transformer turns one compendium page into a normalized category payload
type Transformer interface {
	Transform(page *compendium.Page) (content.Payload, error)
}

// Registry maps categories to their transformers. It is immutable after
// construction, so lookups are safe from any goroutine.
type Registry struct {
	transformers map[content.Category]Transformer
}

// NewRegistry builds the registry with every category transformer wired in
func NewRegistry() *Registry {
	return &Registry{
		transformers: map[content.Category]Transformer{
			content.CategoryClass:      &ClassTransformer{},
			content.CategorySubclass:   &SubclassTransformer{},
			content.CategoryRace:       &RaceTransformer{},
			content.CategoryBackground: &BackgroundTransformer{},
			content.CategoryFeat:       &FeatTransformer{},
			content.CategoryEquipment:  &EquipmentTransformer{},
			content.CategorySpell:      &SpellTransformer{},
			content.CategoryMonster:    &MonsterTransformer{},
		},
	}
}

// Lookup returns the transformer registered for a category
func (r *Registry) Lookup(category content.Category) (Transformer, bool) {
	t, ok := r.transformers[category]
	return t, ok
}

// Transform runs the category's transformer against a page
func (r *Registry) Transform(category content.Category, page *compendium.Page) (content.Payload, error) {
	t, ok := r.transformers[category]
	if !ok {
		return nil, errors.Unimplementedf("no transformer registered for category %q", category)
	}
	return t.Transform(page)
}

// DecodeNativePayload decodes a page's pre-baked data-payload property
// directly into the category's payload type, bypassing transformation
func DecodeNativePayload(category content.Category, raw string) (content.Payload, error) {
	var payload content.Payload
	switch category {
	case content.CategoryClass:
		payload = &content.ClassPayload{}
	case content.CategorySubclass:
		payload = &content.SubclassPayload{}
	case content.CategoryRace:
		payload = &content.RacePayload{}
	case content.CategoryBackground:
		payload = &content.BackgroundPayload{}
	case content.CategoryFeat:
		payload = &content.FeatPayload{}
	case content.CategoryEquipment:
		payload = &content.EquipmentPayload{}
	case content.CategorySpell:
		payload = &content.SpellPayload{}
	case content.CategoryMonster:
		payload = &content.MonsterPayload{}
	default:
		return nil, errors.Unimplementedf("no payload type for category %q", category)
	}

	if err := json.Unmarshal([]byte(raw), payload); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "native payload does not decode")
	}
	return payload, nil
}
