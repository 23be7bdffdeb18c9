package transform

import (
	"strings"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// ClassTransformer aggregates class pages. Hit dice, class details, and
// spellcasting records are singletons consumed directly into the payload;
// spell choice records feed the known-spell progression tables; level-1
// standalone proficiency records combine into one Proficiencies feature.
type ClassTransformer struct{}

// Transform implements Transformer
func (t *ClassTransformer) Transform(page *compendium.Page) (content.Payload, error) {
	records, ok := page.Properties.Records()
	if !ok {
		return legacyClass(page), nil
	}

	payload := &content.ClassPayload{
		Name:            page.Name,
		FeaturesByLevel: content.FeatureMap{},
	}

	hitDiceIdx := firstIndexOfType(records, RecordHitDice)
	detailsIdx := firstIndexOfType(records, RecordClassDetails)
	castingIdx := firstIndexOfType(records, RecordSpellcasting)

	if hitDiceIdx >= 0 {
		if p, err := decodeRecordPayload(records[hitDiceIdx].Payload); err == nil {
			payload.HitDie = normalizeDie(p.(*hitDiceRecord).Die)
		}
	}

	proficiencies := content.Feature{
		Name: "Proficiencies",
		Container: &content.EffectContainer{
			Label:   "Proficiencies",
			Enabled: true,
		},
	}

	if detailsIdx >= 0 {
		fragment := BuildFragment(records[detailsIdx], nil)
		if fragment != nil {
			payload.Description = fragment.Description
			fragment.Description = ""
			absorbFragment(&proficiencies, fragment)
		}
	}

	// Everything not consumed above goes through the merge tree, except
	// standalone level-1 proficiencies, which combine into one feature
	var treeSet []compendium.Record
	for i, rec := range records {
		if i == hitDiceIdx || i == detailsIdx || i == castingIdx {
			continue
		}
		recType := recordTypeOf(rec.Payload)
		if recType == RecordSpellChoice {
			continue
		}
		if recType == RecordProficiency && rec.Parent == "" && rec.Level <= 1 {
			fragment := BuildFragment(rec, &BuildOptions{
				PickerIndexOffset: len(proficiencies.Container.Pickers),
			})
			absorbFragment(&proficiencies, fragment)
			continue
		}
		treeSet = append(treeSet, rec)
	}

	for _, lf := range MergeRecordTree(records, treeSet) {
		if lf.Feature.IsEmpty() {
			continue
		}
		level := lf.Level
		if level < 1 {
			level = 1
		}
		payload.FeaturesByLevel.Add(level, lf.Feature)
	}

	proficiencies.Container.Compact()
	if proficiencies.Container.IsEmpty() {
		proficiencies.Container = nil
	}
	if !proficiencies.IsEmpty() {
		payload.FeaturesByLevel.Add(1, proficiencies)
	}

	cantrips, spells := spellProgression(records)
	if castingIdx >= 0 {
		fragment := BuildFragment(records[castingIdx], nil)
		if fragment != nil && len(fragment.SpellSources) > 0 {
			source := fragment.SpellSources[0]
			source.CantripsKnown = cantrips
			source.SpellsKnown = spells
			// A class with a known-spells table learns spells, it does not
			// prepare them, whatever the record flag claims
			if hasNonZero(spells) {
				source.IsPrepared = false
			}
			payload.SpellSources = append(payload.SpellSources, source)
		}
	} else if cantrips != nil || spells != nil {
		// Spell choice records with no spellcasting record to ride on still
		// keep their progression, on a bare source
		payload.SpellSources = append(payload.SpellSources, content.SpellSource{
			Name:          "Spellcasting",
			CantripsKnown: cantrips,
			SpellsKnown:   spells,
		})
	}

	payload.SpellSources = append(payload.SpellSources,
		liftSpellSources(payload.FeaturesByLevel, nil)...)

	return payload, nil
}

// firstIndexOfType returns the index of the first record with the given type
// tag, or -1
func firstIndexOfType(records []compendium.Record, recType RecordType) int {
	for i, rec := range records {
		if recordTypeOf(rec.Payload) == recType {
			return i
		}
	}
	return -1
}

// spellProgression folds all spell choice records into cumulative
// cantrips-known and spells-known tables, one entry per character level. A
// choice granted at level N counts at N and every level after it.
func spellProgression(records []compendium.Record) (cantrips, spells []int) {
	var perLevelCantrips, perLevelSpells [content.MaxLevel + 1]int
	found := false

	for _, rec := range records {
		if recordTypeOf(rec.Payload) != RecordSpellChoice {
			continue
		}
		decoded, err := decodeRecordPayload(rec.Payload)
		if err != nil {
			continue
		}
		choice := decoded.(*spellChoiceRecord)

		count := 1
		if choice.Choices != nil {
			count = int(*choice.Choices)
		}
		if count <= 0 {
			continue
		}

		level := rec.Level
		if level < 1 {
			level = 1
		}
		if level > content.MaxLevel {
			level = content.MaxLevel
		}

		spellLevel := 0
		if choice.SpellLevel != nil {
			spellLevel = int(*choice.SpellLevel)
		}
		if spellLevel == 0 {
			perLevelCantrips[level] += count
		} else {
			perLevelSpells[level] += count
		}
		found = true
	}

	if !found {
		return nil, nil
	}
	return cumulative(perLevelCantrips), cumulative(perLevelSpells)
}

func cumulative(perLevel [content.MaxLevel + 1]int) []int {
	out := make([]int, content.MaxLevel)
	running := 0
	for level := 1; level <= content.MaxLevel; level++ {
		running += perLevel[level]
		out[level-1] = running
	}
	return out
}

func hasNonZero(values []int) bool {
	for _, v := range values {
		if v != 0 {
			return true
		}
	}
	return false
}

// normalizeDie renders hit dice as "d<sides>", tolerating bare numbers and
// mixed case
func normalizeDie(die string) string {
	trimmed := strings.ToLower(strings.TrimSpace(die))
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "d") {
		trimmed = "d" + trimmed
	}
	return trimmed
}
