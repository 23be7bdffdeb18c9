package transform

import (
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// LevelledFeature is one merged feature with the level it was declared at
type LevelledFeature struct {
	Feature content.Feature
	Level   int
}

// MergeRecordTree assembles features out of parent/child record groups.
// Parent linkage is by record name. Non-Features records fold into their
// nearest ancestor of type Features; records with no such ancestor (missing,
// outside the record set, or part of a cycle) become standalone features. A
// Features record never folds into another feature, so nested Features stay
// separate siblings.
//
// The ancestor index covers allRecords so that ancestors outside the process
// set are still found; every ancestor walk is bounded by the total record
// count, which makes cyclic parent chains terminate as "no ancestor".
func MergeRecordTree(allRecords, toProcess []compendium.Record) []LevelledFeature {
	byName := make(map[string]compendium.Record, len(allRecords))
	for _, rec := range allRecords {
		if _, exists := byName[rec.Name]; !exists {
			byName[rec.Name] = rec
		}
	}

	type anchor struct {
		feature content.Feature
		level   int
	}

	anchors := make(map[string]*anchor)
	var ordered []*anchor

	newAnchor := func(rec compendium.Record) *anchor {
		a := &anchor{
			feature: content.Feature{
				Name: rec.Name,
				Container: &content.EffectContainer{
					Label:   rec.Name,
					Enabled: true,
				},
			},
			level: rec.Level,
		}
		absorbFragment(&a.feature, BuildFragment(rec, nil))
		anchors[rec.Name] = a
		ordered = append(ordered, a)
		return a
	}

	// Features records in the process set anchor their own features, in
	// record order
	for _, rec := range toProcess {
		if recordTypeOf(rec.Payload) != RecordFeatures {
			continue
		}
		if _, exists := anchors[rec.Name]; !exists {
			newAnchor(rec)
		}
	}

	// Everything else merges into its nearest Features ancestor or stands
	// alone
	for _, rec := range toProcess {
		if recordTypeOf(rec.Payload) == RecordFeatures {
			continue
		}

		ancestorName, found := nearestFeaturesAncestor(rec, byName)
		if found {
			a, exists := anchors[ancestorName]
			if !exists {
				// Ancestor lives outside the process set; materialize it
				a = newAnchor(byName[ancestorName])
			}
			fragment := BuildFragment(rec, &BuildOptions{
				PickerIndexOffset: len(a.feature.Container.Pickers),
			})
			absorbFragment(&a.feature, fragment)
			continue
		}

		a := &anchor{
			feature: content.Feature{
				Name: rec.Name,
				Container: &content.EffectContainer{
					Label:   rec.Name,
					Enabled: true,
				},
			},
			level: rec.Level,
		}
		absorbFragment(&a.feature, BuildFragment(rec, nil))
		ordered = append(ordered, a)
	}

	result := make([]LevelledFeature, 0, len(ordered))
	for _, a := range ordered {
		a.feature.Container.Compact()
		if a.feature.Container.IsEmpty() {
			a.feature.Container = nil
		}
		result = append(result, LevelledFeature{Feature: a.feature, Level: a.level})
	}
	return result
}

// nearestFeaturesAncestor walks the parent chain looking for a Features
// record. The walk is bounded by the index size, so cycles terminate.
func nearestFeaturesAncestor(rec compendium.Record, byName map[string]compendium.Record) (string, bool) {
	current := rec
	for steps := 0; steps <= len(byName); steps++ {
		if current.Parent == "" {
			return "", false
		}
		parent, ok := byName[current.Parent]
		if !ok {
			return "", false
		}
		if recordTypeOf(parent.Payload) == RecordFeatures {
			return parent.Name, true
		}
		current = parent
	}
	return "", false
}

// absorbFragment merges a fragment into a feature: the description joins the
// feature's, spells join the feature's spell list, and everything else lands
// in the effect container
func absorbFragment(feature *content.Feature, fragment *content.Fragment) {
	if fragment == nil {
		return
	}

	if fragment.Description != "" {
		if feature.Description != "" {
			feature.Description += "\n\n" + fragment.Description
		} else {
			feature.Description = fragment.Description
		}
	}

	feature.Spells = append(feature.Spells, fragment.Spells...)

	if feature.Container == nil {
		feature.Container = &content.EffectContainer{Label: feature.Name, Enabled: true}
	}
	feature.Container.Effects = append(feature.Container.Effects, fragment.Effects...)
	feature.Container.Actions = append(feature.Container.Actions, fragment.Actions...)
	feature.Container.Resources = append(feature.Container.Resources, fragment.Resources...)
	feature.Container.SpellSources = append(feature.Container.SpellSources, fragment.SpellSources...)
	feature.Container.Pickers = append(feature.Container.Pickers, fragment.Pickers...)
}
