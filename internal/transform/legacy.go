package transform

import (
	"regexp"
	"strings"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/rules"
)

// Legacy pages predate the datarecord format: all authored content lives in
// flat page properties. The legacy builders below recover what they can from
// those properties so old books still drop something usable.

// proficiencyLinePattern matches the "Armor: light armor, shields" lines of a
// legacy Proficiencies block
var proficiencyLinePattern = regexp.MustCompile(`(?i)^\s*(armor|weapons?|tools?)\s*:\s*(.+)$`)

func legacyClass(page *compendium.Page) *content.ClassPayload {
	props := page.Properties
	payload := &content.ClassPayload{
		Name:            page.Name,
		Description:     props.String("Description"),
		HitDie:          normalizeDie(props.String("Hit Die")),
		FeaturesByLevel: content.FeatureMap{},
	}

	if feature := legacyProficiencies(props); feature != nil {
		payload.FeaturesByLevel.Add(1, *feature)
	}
	return payload
}

// legacyProficiencies assembles the level-1 Proficiencies feature from the
// saving-throw list and the free-text Proficiencies block
func legacyProficiencies(props compendium.PropertyBag) *content.Feature {
	container := &content.EffectContainer{
		Label:   "Proficiencies",
		Enabled: true,
	}

	saves := props.String("data-Saving Throws")
	if saves == "" {
		saves = props.String("Saving Throws")
	}
	for _, save := range splitList(saves) {
		ability, ok := rules.ExpandAbility(save)
		if !ok {
			continue
		}
		container.Effects = append(container.Effects,
			content.ValueEffect(ability+"-save-proficiency", content.OperationSet, float64(1)))
	}

	for _, line := range strings.Split(props.String("Proficiencies"), "\n") {
		match := proficiencyLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		attribute := legacyProficiencyAttribute(match[1])
		for _, name := range splitList(match[2]) {
			container.Effects = append(container.Effects,
				content.ValueEffect(attribute, content.OperationPush, name))
		}
	}

	container.Compact()
	if container.IsEmpty() {
		return nil
	}
	return &content.Feature{Name: "Proficiencies", Container: container}
}

func legacyProficiencyAttribute(kind string) string {
	switch strings.ToLower(kind) {
	case "armor":
		return "armor-proficiencies"
	case "weapon", "weapons":
		return "weapon-proficiencies"
	default:
		return "tool-proficiencies"
	}
}

func legacyEquipment(page *compendium.Page) *content.EquipmentPayload {
	props := page.Properties
	payload := &content.EquipmentPayload{
		Name:        page.Name,
		Type:        props.String("Item Type"),
		Description: props.String("Description"),
		Properties:  splitList(props.String("Properties")),
		Cost:        props.String("Cost"),
	}
	if weight, ok := props.Number("Weight"); ok {
		payload.Weight = weight
	}
	if quantity, ok := props.Number("Quantity"); ok {
		payload.Quantity = int(quantity)
	}

	container := &content.EffectContainer{
		Label:   page.Name,
		Enabled: true,
	}

	if ac, ok := props.Number("AC"); ok {
		if strings.EqualFold(payload.Type, "Shield") {
			container.Effects = append(container.Effects,
				content.ValueEffect("armor-class", content.OperationAdd, ac))
		} else {
			container.Effects = append(container.Effects,
				content.ValueEffect("armor-class", content.OperationSetBase, ac))
		}
		payload.ArmorClass = formatNumber(ac)
	}

	if damage := props.String("Damage"); damage != "" {
		container.Actions = append(container.Actions, content.Action{
			Name:          page.Name,
			Group:         content.GroupActions,
			IsAttack:      true,
			AttackAbility: "auto",
			AttackBonus:   "0",
			Range:         props.String("Range"),
			Damage: []content.DamageEntry{{
				Ability: "auto",
				Damage:  damage,
				Type:    props.String("Damage Type"),
			}},
		})
	}

	container.Compact()
	if !container.IsEmpty() {
		payload.Effects = container
	}
	return payload
}

// splitList splits a comma-separated property into trimmed entries
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// joinText joins two description blocks with a blank line, tolerating either
// being empty
func joinText(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "\n\n" + b
	}
}
