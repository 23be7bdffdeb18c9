package content

// SpellSource is a casting origin (a class spellcasting feature, an innate
// trait) that spells attach to. IDs are minted when the owning payload is
// committed; until then spells point at sources symbolically.
type SpellSource struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Ability       string `json:"ability,omitempty"`
	SaveDC        string `json:"saveDc,omitempty"`
	AttackMod     string `json:"attackMod,omitempty"`
	IsPrepared    bool   `json:"isPrepared,omitempty"`
	CantripsKnown []int  `json:"cantripsKnown,omitempty"`
	SpellsKnown   []int  `json:"spellsKnown,omitempty"`
}

// Spell is a normalized spell, either a lightweight stub awaiting hydration
// or a fully expanded definition
type Spell struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Level         int    `json:"level"`
	School        string `json:"school,omitempty"`
	CastingTime   string `json:"castingTime,omitempty"`
	Range         string `json:"range,omitempty"`
	Components    string `json:"components,omitempty"`
	Duration      string `json:"duration,omitempty"`
	Concentration bool   `json:"concentration,omitempty"`
	Ritual        bool   `json:"ritual,omitempty"`
	Description   string `json:"description,omitempty"`
	SpellSourceID Ref    `json:"spellSourceId,omitzero"`

	// Container holds the spell's own effects (damage actions, resources)
	Container *EffectContainer `json:"effects,omitempty"`
}

// Upcast is one higher-level casting override for a spell. For
// specific-spell-level upcasting, values set at one level cascade forward to
// all higher levels not otherwise overridden.
type Upcast struct {
	Level    int    `json:"level"`
	Damage   string `json:"damage,omitempty"`
	Duration string `json:"duration,omitempty"`
	Targets  int    `json:"targets,omitempty"`
}

// Feature is one named trait or class feature with its effects
type Feature struct {
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Container   *EffectContainer `json:"effects,omitempty"`
	Spells      []Spell          `json:"spells,omitempty"`
}

// IsEmpty reports whether the feature carries neither description, effects,
// nor spells. Empty features are not grouped into level maps.
func (f *Feature) IsEmpty() bool {
	return f.Description == "" && f.Container.IsEmpty() && len(f.Spells) == 0
}
