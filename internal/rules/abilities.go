// Package rules holds the canonical naming rules for sheet attributes and the
// parsers that rewrite compendium text into them.
package rules

import "strings"

// Canonical ability attribute names
const (
	AbilityStrength     = "strength"
	AbilityDexterity    = "dexterity"
	AbilityConstitution = "constitution"
	AbilityIntelligence = "intelligence"
	AbilityWisdom       = "wisdom"
	AbilityCharisma     = "charisma"
)

// Abilities lists the canonical ability names in stat-block order
var Abilities = []string{
	AbilityStrength,
	AbilityDexterity,
	AbilityConstitution,
	AbilityIntelligence,
	AbilityWisdom,
	AbilityCharisma,
}

// abilityAbbreviations maps the three-letter forms used in compendium text
var abilityAbbreviations = map[string]string{
	"str": AbilityStrength,
	"dex": AbilityDexterity,
	"con": AbilityConstitution,
	"int": AbilityIntelligence,
	"wis": AbilityWisdom,
	"cha": AbilityCharisma,
}

// ExpandAbility resolves an ability abbreviation or full name, in any case,
// to its canonical name. The second return is false if the input is not an
// ability at all.
func ExpandAbility(name string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if full, ok := abilityAbbreviations[lower]; ok {
		return full, true
	}
	for _, ability := range Abilities {
		if lower == ability {
			return ability, true
		}
	}
	return name, false
}

// IsAbility reports whether the name is an ability abbreviation or full name
func IsAbility(name string) bool {
	_, ok := ExpandAbility(name)
	return ok
}

// ModifierAttribute returns the derived modifier attribute for an ability,
// e.g. "strength" -> "strength-modifier". Non-ability names pass through with
// the suffix attached, which matches how skill modifiers are addressed.
func ModifierAttribute(name string) string {
	canonical, _ := ExpandAbility(name)
	return canonical + "-modifier"
}

// CanonicalName converts a free-text attribute name ("Animal Handling") into
// its canonical hyphenated form ("animal-handling"), expanding ability
// abbreviations on the way.
func CanonicalName(name string) string {
	if full, ok := ExpandAbility(name); ok {
		return full
	}
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(lower), "-")
}
