package transform

import (
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// RaceTransformer aggregates race pages. Standalone records (ability scores,
// speed, senses, languages) share one "Racial Traits" container at level 1;
// parented groups become their own features. Species and Size records only
// classify the page.
type RaceTransformer struct{}

// Transform implements Transformer
func (t *RaceTransformer) Transform(page *compendium.Page) (content.Payload, error) {
	payload := &content.RacePayload{
		Name:            page.Name,
		Description:     page.Properties.String("Description"),
		Size:            page.Properties.String("Size"),
		FeaturesByLevel: content.FeatureMap{},
	}

	records, ok := page.Properties.Records()
	if !ok {
		return payload, nil
	}

	if rec, found := firstOfType(records, RecordSize); found {
		if decoded, err := decodeRecordPayload(rec.Payload); err == nil {
			if size := decoded.(*sizeRecord).Size; size != "" {
				payload.Size = size
			}
		}
	}

	features, main := mergeGrouped(records, "Racial Traits", nil)
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
