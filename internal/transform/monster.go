package transform

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/rules"
)

// MonsterTransformer aggregates monster stat blocks. Monsters are mostly
// property-driven even on modern pages; Attack records, when present, replace
// the free-text Actions property.
type MonsterTransformer struct{}

var (
	// leadingIntPattern splits "15 (natural armor)" style stats into the
	// number and the parenthesized note
	leadingIntPattern = regexp.MustCompile(`^\s*(\d+)\s*(?:\((.*?)\))?`)

	// challengePattern reads the rating out of "1/2 (100 XP)"
	challengePattern = regexp.MustCompile(`^\s*(\d+)(?:\s*/\s*(\d+))?`)

	// innateGroupPattern matches innate spell list lines such as
	// "At will: detect magic" and "3/day each: fly, fear"
	innateGroupPattern = regexp.MustCompile(`(?i)^\s*(at[- ]?will|(\d+)\s*/\s*(day|week))(?:\s+each)?\s*:\s*(.+)$`)

	// spellListPattern matches prepared spell list lines such as
	// "Cantrips (at will): fire bolt, light" and "1st level (4 slots): shield"
	spellListPattern = regexp.MustCompile(`(?i)^\s*(cantrips|(\d+)(?:st|nd|rd|th)\s+level)\s*(?:\(.*?\))?\s*:\s*(.+)$`)

	spellAbilityPattern = regexp.MustCompile(`(?i)spellcasting ability is (\w+)`)
	spellDCPattern      = regexp.MustCompile(`(?i)spell save DC (\d+)`)
	spellAttackPattern  = regexp.MustCompile(`([+-]\s*\d+) to hit`)
)

// abilityProperties are the stat-block score keys in display order
var abilityProperties = []string{"Str", "Dex", "Con", "Int", "Wis", "Cha"}

// Transform implements Transformer
func (t *MonsterTransformer) Transform(page *compendium.Page) (content.Payload, error) {
	props := page.Properties
	payload := &content.MonsterPayload{
		Name:      page.Name,
		Size:      props.String("Size"),
		Type:      props.String("Type"),
		Alignment: props.String("Alignment"),
		Speed:     props.String("Speed"),
		Senses:    props.String("Senses"),
		Languages: props.String("Languages"),
		Challenge: props.String("Challenge"),
	}

	payload.ArmorClass, payload.ArmorNote = splitLeadingInt(props.String("AC"))
	payload.HitPoints, payload.HitPointsFormula = splitLeadingInt(props.String("HP"))
	payload.ProficiencyBonus = proficiencyFromChallenge(payload.Challenge)

	for _, key := range abilityProperties {
		score, ok := props.Number(key)
		if !ok {
			continue
		}
		ability, _ := rules.ExpandAbility(key)
		if payload.Abilities == nil {
			payload.Abilities = map[string]int{}
		}
		payload.Abilities[ability] = int(score)
	}

	if saves := rules.ParseStatBlock(props.String("Saving Throws")); len(saves) > 0 {
		payload.SavingThrows = saves
	}
	if skills := rules.ParseStatBlock(props.String("Skills")); len(skills) > 0 {
		payload.Skills = skills
	}

	payload.Traits = decodeTraitList(props["Traits"])
	parseMonsterSpellcasting(payload)

	if records, ok := props.Records(); ok && len(recordsOfType(records, RecordAttack)) > 0 {
		container := &content.EffectContainer{Label: page.Name, Enabled: true}
		for _, rec := range recordsOfType(records, RecordAttack) {
			buildItemAttack(container, rec, records)
		}
		payload.Actions = container.Actions
	} else {
		for _, trait := range decodeTraitList(props["Actions"]) {
			payload.Actions = append(payload.Actions, content.Action{
				Name:        trait.Name,
				Group:       content.GroupActions,
				Description: trait.Description,
			})
		}
	}

	return payload, nil
}

// splitLeadingInt pulls the number off a stat string and returns the
// parenthesized remainder as the note
func splitLeadingInt(raw string) (int, string) {
	match := leadingIntPattern.FindStringSubmatch(raw)
	if match == nil {
		return 0, strings.TrimSpace(raw)
	}
	value, _ := strconv.Atoi(match[1])
	return value, strings.TrimSpace(match[2])
}

// proficiencyFromChallenge derives the proficiency bonus from the challenge
// rating: +2 through CR 4, then +1 per four ratings
func proficiencyFromChallenge(challenge string) int {
	match := challengePattern.FindStringSubmatch(challenge)
	if match == nil {
		return 2
	}
	rating, _ := strconv.Atoi(match[1])
	if match[2] != "" {
		// Fractional ratings are all below 1
		rating = 0
	}
	if rating < 1 {
		return 2
	}
	return 2 + (rating-1)/4
}

// decodeTraitList decodes a trait array property that may arrive as a JSON
// string or an already-decoded array
func decodeTraitList(raw any) []content.Trait {
	if raw == nil {
		return nil
	}

	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		data = encoded
	}

	var traits []content.Trait
	if err := json.Unmarshal(data, &traits); err != nil {
		return nil
	}
	return traits
}

// parseMonsterSpellcasting scans the traits for spellcasting blocks and
// lifts them into structured form. Innate lists normalize their frequencies
// to "At Will", "N/Day", or "N/Week".
func parseMonsterSpellcasting(payload *content.MonsterPayload) {
	for _, trait := range payload.Traits {
		name := strings.ToLower(trait.Name)
		if !strings.Contains(name, "spellcasting") {
			continue
		}
		if strings.Contains(name, "innate") {
			payload.InnateSpells = append(payload.InnateSpells, parseInnateGroups(trait.Description)...)
			continue
		}
		payload.Spellcasting = parsePreparedSpellcasting(trait.Description)
	}
}

func parseInnateGroups(description string) []content.InnateSpellGroup {
	var groups []content.InnateSpellGroup
	for _, line := range strings.Split(description, "\n") {
		match := innateGroupPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		frequency := "At Will"
		if match[2] != "" {
			frequency = match[2] + "/" + titleCase(strings.ToLower(match[3]))
		}

		group := content.InnateSpellGroup{Frequency: frequency}
		for _, name := range splitList(match[4]) {
			group.Spells = append(group.Spells, content.Spell{Name: name})
		}
		if len(group.Spells) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

func parsePreparedSpellcasting(description string) *content.MonsterSpellcasting {
	casting := &content.MonsterSpellcasting{}

	if match := spellAbilityPattern.FindStringSubmatch(description); match != nil {
		if ability, ok := rules.ExpandAbility(match[1]); ok {
			casting.Ability = ability
		}
	}
	if match := spellDCPattern.FindStringSubmatch(description); match != nil {
		casting.SaveDC = match[1]
	}
	if match := spellAttackPattern.FindStringSubmatch(description); match != nil {
		casting.AttackBonus = strings.ReplaceAll(match[1], " ", "")
	}

	for _, line := range strings.Split(description, "\n") {
		match := spellListPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		level := 0
		if match[2] != "" {
			level, _ = strconv.Atoi(match[2])
		}
		for _, name := range splitList(match[3]) {
			casting.Spells = append(casting.Spells, content.Spell{Name: name, Level: level})
		}
	}

	return casting
}
