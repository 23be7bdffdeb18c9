// Package content defines the normalized internal content schema the
// compendium pipeline produces: attribute mutations, actions, resources,
// pickers, spells, features, and the per-category payloads that carry them.
package content

// Operation is the write operation an attribute mutation applies
type Operation string

// Attribute mutation operations
const (
	OperationAdd                 Operation = "add"
	OperationSet                 Operation = "set"
	OperationSetBase             Operation = "set-base"
	OperationSetBaseFinal        Operation = "set-base-final"
	OperationSetMax              Operation = "set-max"
	OperationPush                Operation = "push"
	OperationAddFormula          Operation = "add-formula"
	OperationSetBaseFinalFormula Operation = "set-base-final-formula"
)

// Effect is one attribute mutation. Exactly one of Value and Formula is set,
// decided by whether the source record supplied a custom formula or a flat
// value. Formula-suffixed operations always carry Formula.
type Effect struct {
	Attribute string    `json:"attribute"`
	Operation Operation `json:"operation"`
	Value     any       `json:"value,omitempty"`
	Formula   string    `json:"formula,omitempty"`
}

// ValueEffect creates an effect carrying a flat value
func ValueEffect(attribute string, op Operation, value any) Effect {
	return Effect{Attribute: attribute, Operation: op, Value: value}
}

// FormulaEffect creates an effect carrying a formula
func FormulaEffect(attribute string, op Operation, formula string) Effect {
	return Effect{Attribute: attribute, Operation: op, Formula: formula}
}

// EffectContainer is the persisted bag of mutations, actions, resources,
// spells, and choices attached to a feature, item, or spell. Arrays left
// empty after aggregation are omitted from the persisted object.
type EffectContainer struct {
	ID           string        `json:"id,omitempty"`
	Label        string        `json:"label"`
	Enabled      bool          `json:"enabled"`
	Toggleable   bool          `json:"toggleable"`
	Removable    bool          `json:"removable"`
	Required     []string      `json:"required,omitempty"`
	Effects      []Effect      `json:"effects,omitempty"`
	Actions      []Action      `json:"actions,omitempty"`
	Resources    []Resource    `json:"resources,omitempty"`
	Spells       []Spell       `json:"spells,omitempty"`
	SpellSources []SpellSource `json:"spellSources,omitempty"`
	Pickers      []Picker      `json:"pickers,omitempty"`
}

// Absorb merges a fragment into the container by concatenation. No entry is
// ever dropped here; empty-array cleanup happens once in Compact.
func (c *EffectContainer) Absorb(f *Fragment) {
	if f == nil {
		return
	}
	c.Effects = append(c.Effects, f.Effects...)
	c.Actions = append(c.Actions, f.Actions...)
	c.Resources = append(c.Resources, f.Resources...)
	c.Spells = append(c.Spells, f.Spells...)
	c.SpellSources = append(c.SpellSources, f.SpellSources...)
	c.Pickers = append(c.Pickers, f.Pickers...)
}

// Compact nils out arrays that ended up empty so they are omitted from the
// persisted object instead of serializing as []
func (c *EffectContainer) Compact() {
	if len(c.Required) == 0 {
		c.Required = nil
	}
	if len(c.Effects) == 0 {
		c.Effects = nil
	}
	if len(c.Actions) == 0 {
		c.Actions = nil
	}
	if len(c.Resources) == 0 {
		c.Resources = nil
	}
	if len(c.Spells) == 0 {
		c.Spells = nil
	}
	if len(c.SpellSources) == 0 {
		c.SpellSources = nil
	}
	if len(c.Pickers) == 0 {
		c.Pickers = nil
	}
}

// IsEmpty reports whether the container carries no entries at all
func (c *EffectContainer) IsEmpty() bool {
	return c == nil ||
		(len(c.Effects) == 0 &&
			len(c.Actions) == 0 &&
			len(c.Resources) == 0 &&
			len(c.Spells) == 0 &&
			len(c.SpellSources) == 0 &&
			len(c.Pickers) == 0)
}

// Fragment is the transient output of transforming one record. Fragments are
// aggregated into containers by concatenation, never by replacement, and are
// never persisted themselves.
type Fragment struct {
	Description  string
	Effects      []Effect
	Actions      []Action
	Resources    []Resource
	Spells       []Spell
	SpellSources []SpellSource
	Pickers      []Picker
}

// Merge concatenates another fragment into this one. Descriptions are joined
// with a blank line between them.
func (f *Fragment) Merge(other *Fragment) {
	if other == nil {
		return
	}
	if other.Description != "" {
		if f.Description != "" {
			f.Description += "\n\n" + other.Description
		} else {
			f.Description = other.Description
		}
	}
	f.Effects = append(f.Effects, other.Effects...)
	f.Actions = append(f.Actions, other.Actions...)
	f.Resources = append(f.Resources, other.Resources...)
	f.Spells = append(f.Spells, other.Spells...)
	f.SpellSources = append(f.SpellSources, other.SpellSources...)
	f.Pickers = append(f.Pickers, other.Pickers...)
}

// IsEmpty reports whether the fragment contributes nothing
func (f *Fragment) IsEmpty() bool {
	return f == nil ||
		(f.Description == "" &&
			len(f.Effects) == 0 &&
			len(f.Actions) == 0 &&
			len(f.Resources) == 0 &&
			len(f.Spells) == 0 &&
			len(f.SpellSources) == 0 &&
			len(f.Pickers) == 0)
}

// Container converts the fragment into a standalone effect container
func (f *Fragment) Container(label string) *EffectContainer {
	c := &EffectContainer{
		Label:   label,
		Enabled: true,
	}
	c.Absorb(f)
	return c
}
