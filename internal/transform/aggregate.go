package transform

import (
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// mergeGrouped is the shared aggregation step for levelled categories. Records
// that are Features or carry a parent link go through the merge tree and come
// out grouped by level; the remaining standalone records fold into one shared
// container labelled mainLabel (classification markers excluded). The skip
// callback lets a category pull singleton records out before merging.
func mergeGrouped(records []compendium.Record, mainLabel string, skip func(compendium.Record) bool) (content.FeatureMap, *content.Feature) {
	var treeSet, standalone []compendium.Record
	for _, rec := range records {
		if skip != nil && skip(rec) {
			continue
		}
		recType := recordTypeOf(rec.Payload)
		if recType == RecordFeatures || rec.Parent != "" {
			treeSet = append(treeSet, rec)
			continue
		}
		if recType == RecordSpecies || recType == RecordSize {
			continue
		}
		standalone = append(standalone, rec)
	}

	features := content.FeatureMap{}
	for _, lf := range MergeRecordTree(records, treeSet) {
		if lf.Feature.IsEmpty() {
			continue
		}
		level := lf.Level
		if level < 1 {
			level = 1
		}
		features.Add(level, lf.Feature)
	}

	main := &content.Feature{
		Name: mainLabel,
		Container: &content.EffectContainer{
			Label:   mainLabel,
			Enabled: true,
		},
	}
	for _, rec := range standalone {
		fragment := BuildFragment(rec, &BuildOptions{
			PickerIndexOffset: len(main.Container.Pickers),
		})
		absorbFragment(main, fragment)
	}
	main.Container.Compact()
	if main.Container.IsEmpty() {
		main.Container = nil
	}
	if main.IsEmpty() {
		main = nil
	}
	return features, main
}

// liftSpellSources moves spell sources out of feature containers up to the
// payload-level channel, where the drop handlers expect them
func liftSpellSources(features content.FeatureMap, main *content.Feature) []content.SpellSource {
	var sources []content.SpellSource
	collect := func(f *content.Feature) {
		if f.Container == nil || len(f.Container.SpellSources) == 0 {
			return
		}
		sources = append(sources, f.Container.SpellSources...)
		f.Container.SpellSources = nil
		if f.Container.IsEmpty() {
			f.Container = nil
		}
	}

	for key := range features {
		for i := range features[key] {
			collect(&features[key][i])
		}
	}
	if main != nil {
		collect(main)
	}
	return sources
}

// recordsOfType returns the records whose payload carries the given type tag
func recordsOfType(records []compendium.Record, recType RecordType) []compendium.Record {
	var matched []compendium.Record
	for _, rec := range records {
		if recordTypeOf(rec.Payload) == recType {
			matched = append(matched, rec)
		}
	}
	return matched
}

// firstOfType returns the first record with the given type tag
func firstOfType(records []compendium.Record, recType RecordType) (compendium.Record, bool) {
	for _, rec := range records {
		if recordTypeOf(rec.Payload) == recType {
			return rec, true
		}
	}
	return compendium.Record{}, false
}
