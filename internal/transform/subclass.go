package transform

import (
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// SubclassTransformer aggregates subclass pages: parented record groups
// become levelled features, standalone records share one container named
// after the subclass.
type SubclassTransformer struct{}

// Transform implements Transformer
func (t *SubclassTransformer) Transform(page *compendium.Page) (content.Payload, error) {
	payload := &content.SubclassPayload{
		Name:            page.Name,
		Description:     page.Properties.String("Description"),
		ParentClass:     page.Properties.String("Class"),
		FeaturesByLevel: content.FeatureMap{},
	}

	records, ok := page.Properties.Records()
	if !ok {
		return payload, nil
	}

	features, main := mergeGrouped(records, page.Name, nil)
	payload.FeaturesByLevel = features
	if main != nil {
		payload.Description = joinText(payload.Description, main.Description)
		main.Description = ""
		if !main.IsEmpty() {
			payload.FeaturesByLevel.Add(1, *main)
		}
	}

	payload.SpellSources = append(payload.SpellSources,
		liftSpellSources(payload.FeaturesByLevel, nil)...)

	return payload, nil
}
