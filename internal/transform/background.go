package transform

import (
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// Backgrounds and feats are flat: they carry no level progression, so
// everything collapses into one combined container on the effects channel,
// with any parented feature groups riding the features channel.

// BackgroundTransformer aggregates background pages
type BackgroundTransformer struct{}

// Transform implements Transformer
func (t *BackgroundTransformer) Transform(page *compendium.Page) (content.Payload, error) {
	payload := &content.BackgroundPayload{
		Name:        page.Name,
		Description: page.Properties.String("Description"),
	}
	flattenRecords(page, &payload.Channels, &payload.Description)
	return payload, nil
}

// FeatTransformer aggregates feat pages
type FeatTransformer struct{}

// Transform implements Transformer
func (t *FeatTransformer) Transform(page *compendium.Page) (content.Payload, error) {
	payload := &content.FeatPayload{
		Name:        page.Name,
		Description: page.Properties.String("Description"),
	}
	flattenRecords(page, &payload.Channels, &payload.Description)
	return payload, nil
}

// flattenRecords runs the shared aggregation for flat categories: grouped
// features onto the features channel, the shared container onto the effects
// channel, descriptions joined onto the payload
func flattenRecords(page *compendium.Page, channels *content.Channels, description *string) {
	records, ok := page.Properties.Records()
	if !ok {
		return
	}

	features, main := mergeGrouped(records, page.Name, nil)
	channels.SpellSources = append(channels.SpellSources, liftSpellSources(features, main)...)

	for _, level := range features.Levels() {
		key, _ := content.LevelKey(level)
		channels.Features = append(channels.Features, features[key]...)
	}

	if main != nil {
		*description = joinText(*description, main.Description)
		main.Description = ""
		channels.Spells = append(channels.Spells, main.Spells...)
		if !main.Container.IsEmpty() {
			channels.Effects = main.Container
		}
	}
}
