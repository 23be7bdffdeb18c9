package content

import "strings"

// Category identifies one compendium content category
type Category string

// Content categories
const (
	CategoryClass      Category = "class"
	CategorySubclass   Category = "subclass"
	CategoryRace       Category = "race"
	CategoryBackground Category = "background"
	CategoryFeat       Category = "feat"
	CategoryEquipment  Category = "equipment"
	CategorySpell      Category = "spell"
	CategoryMonster    Category = "monster"
)

// categoryAliases maps the page-type names the compendium uses to categories
var categoryAliases = map[string]Category{
	"class":       CategoryClass,
	"classes":     CategoryClass,
	"subclass":    CategorySubclass,
	"subclasses":  CategorySubclass,
	"race":        CategoryRace,
	"races":       CategoryRace,
	"background":  CategoryBackground,
	"backgrounds": CategoryBackground,
	"feat":        CategoryFeat,
	"feats":       CategoryFeat,
	"equipment":   CategoryEquipment,
	"item":        CategoryEquipment,
	"items":       CategoryEquipment,
	"spell":       CategorySpell,
	"spells":      CategorySpell,
	"monster":     CategoryMonster,
	"monsters":    CategoryMonster,
	"npc":         CategoryMonster,
	"npcs":        CategoryMonster,
}

// ParseCategory resolves a compendium page-type name to a category
func ParseCategory(name string) (Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Channels carries the cross-cutting payload segments every category handles
// identically. The drop router extracts and strips these before the
// category handler sees the core payload.
type Channels struct {
	Features      []Feature        `json:"data-features,omitempty"`
	Effects       *EffectContainer `json:"data-effects,omitempty"`
	Tags          []string         `json:"data-tags,omitempty"`
	Spells        []Spell          `json:"data-spells,omitempty"`
	Compatibility []string         `json:"data-compatibility,omitempty"`
	SpellSources  []SpellSource    `json:"data-spellSource,omitempty"`
}

// SideChannels exposes the channel segment of a payload
func (c *Channels) SideChannels() *Channels {
	return c
}

// Extract returns the channel data and strips it from the payload
func (c *Channels) Extract() Channels {
	out := *c
	*c = Channels{}
	return out
}

// Payload is one normalized category payload produced by an aggregator or
// decoded from a page's native data-payload
type Payload interface {
	PayloadCategory() Category
	SideChannels() *Channels
}

// ClassPayload is the normalized form of a class
type ClassPayload struct {
	Channels

	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	HitDie          string     `json:"hitDie,omitempty"`
	FeaturesByLevel FeatureMap `json:"featuresByLevel,omitempty"`
}

// PayloadCategory implements Payload
func (p *ClassPayload) PayloadCategory() Category { return CategoryClass }

// SubclassPayload is the normalized form of a subclass
type SubclassPayload struct {
	Channels

	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	ParentClass     string     `json:"class,omitempty"`
	FeaturesByLevel FeatureMap `json:"featuresByLevel,omitempty"`
}

// PayloadCategory implements Payload
func (p *SubclassPayload) PayloadCategory() Category { return CategorySubclass }

// RacePayload is the normalized form of a race
type RacePayload struct {
	Channels

	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Size            string     `json:"size,omitempty"`
	FeaturesByLevel FeatureMap `json:"featuresByLevel,omitempty"`
}

// PayloadCategory implements Payload
func (p *RacePayload) PayloadCategory() Category { return CategoryRace }

// BackgroundPayload is the normalized form of a background
type BackgroundPayload struct {
	Channels

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PayloadCategory implements Payload
func (p *BackgroundPayload) PayloadCategory() Category { return CategoryBackground }

// FeatPayload is the normalized form of a standalone feature set
type FeatPayload struct {
	Channels

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PayloadCategory implements Payload
func (p *FeatPayload) PayloadCategory() Category { return CategoryFeat }

// EquipmentPayload is the normalized form of an item
type EquipmentPayload struct {
	Channels

	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	ArmorClass  string   `json:"armorClass,omitempty"`
	Properties  []string `json:"properties,omitempty"`
	Weight      float64  `json:"weight,omitempty"`
	Cost        string   `json:"cost,omitempty"`
	Quantity    int      `json:"quantity,omitempty"`
}

// PayloadCategory implements Payload
func (p *EquipmentPayload) PayloadCategory() Category { return CategoryEquipment }

// SpellPayload is the normalized form of a spell
type SpellPayload struct {
	Channels

	Name          string   `json:"name"`
	Level         int      `json:"level"`
	School        string   `json:"school,omitempty"`
	CastingTime   string   `json:"castingTime,omitempty"`
	Range         string   `json:"range,omitempty"`
	Components    string   `json:"components,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	Concentration bool     `json:"concentration,omitempty"`
	Ritual        bool     `json:"ritual,omitempty"`
	Description   string   `json:"description,omitempty"`
	HigherLevels  string   `json:"higherLevels,omitempty"`
	Damage        string   `json:"damage,omitempty"`
	DamageType    string   `json:"damageType,omitempty"`
	Upcasts       []Upcast `json:"upcasts,omitempty"`
}

// PayloadCategory implements Payload
func (p *SpellPayload) PayloadCategory() Category { return CategorySpell }

// Spell converts the payload into a full spell entry
func (p *SpellPayload) Spell() Spell {
	spell := Spell{
		Name:          p.Name,
		Level:         p.Level,
		School:        p.School,
		CastingTime:   p.CastingTime,
		Range:         p.Range,
		Components:    p.Components,
		Duration:      p.Duration,
		Concentration: p.Concentration,
		Ritual:        p.Ritual,
		Description:   p.Description,
	}
	if p.Effects != nil {
		spell.Container = p.Effects
	}
	return spell
}

// Trait is one monster trait block
type Trait struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// MonsterSpellcasting is a monster's parsed spellcasting trait
type MonsterSpellcasting struct {
	Ability     string  `json:"ability,omitempty"`
	AttackBonus string  `json:"attackBonus,omitempty"`
	SaveDC      string  `json:"saveDc,omitempty"`
	Spells      []Spell `json:"spells,omitempty"`
}

// InnateSpellGroup is a set of innate spells sharing a usage frequency,
// normalized to "At Will", "N/Day", or "N/Week"
type InnateSpellGroup struct {
	Frequency string  `json:"frequency"`
	Spells    []Spell `json:"spells,omitempty"`
}

// MonsterPayload is the normalized form of a monster stat block
type MonsterPayload struct {
	Channels

	Name             string               `json:"name"`
	Size             string               `json:"size,omitempty"`
	Type             string               `json:"type,omitempty"`
	Alignment        string               `json:"alignment,omitempty"`
	ArmorClass       int                  `json:"armorClass,omitempty"`
	ArmorNote        string               `json:"armorNote,omitempty"`
	HitPoints        int                  `json:"hitPoints,omitempty"`
	HitPointsFormula string               `json:"hitPointsFormula,omitempty"`
	Speed            string               `json:"speed,omitempty"`
	Abilities        map[string]int       `json:"abilities,omitempty"`
	SavingThrows     map[string]int       `json:"savingThrows,omitempty"`
	Skills           map[string]int       `json:"skills,omitempty"`
	Senses           string               `json:"senses,omitempty"`
	Languages        string               `json:"languages,omitempty"`
	Challenge        string               `json:"challenge,omitempty"`
	ProficiencyBonus int                  `json:"proficiencyBonus,omitempty"`
	Traits           []Trait              `json:"traits,omitempty"`
	Actions          []Action             `json:"actions,omitempty"`
	Spellcasting     *MonsterSpellcasting `json:"spellcasting,omitempty"`
	InnateSpells     []InnateSpellGroup   `json:"innateSpells,omitempty"`
}

// PayloadCategory implements Payload
func (p *MonsterPayload) PayloadCategory() Category { return CategoryMonster }
