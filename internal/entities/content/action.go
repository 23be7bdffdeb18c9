package content

// ActionGroup is the sheet section an action is filed under
type ActionGroup string

// Action groups
const (
	GroupActions      ActionGroup = "actions"
	GroupBonusActions ActionGroup = "bonus-actions"
	GroupReactions    ActionGroup = "reactions"
	GroupFreeActions  ActionGroup = "free-actions"
)

// DamageEntry is one damage roll attached to an action
type DamageEntry struct {
	Ability    string `json:"ability,omitempty"`
	Damage     string `json:"damage"`
	Type       string `json:"type,omitempty"`
	CritDamage string `json:"critDamage,omitempty"`
}

// Action is an activated ability or attack
type Action struct {
	Name          string        `json:"name"`
	Group         ActionGroup   `json:"group"`
	Description   string        `json:"description,omitempty"`
	IsAttack      bool          `json:"isAttack"`
	AttackAbility string        `json:"attackAbility,omitempty"`
	AttackBonus   string        `json:"attackBonus,omitempty"`
	Saving        string        `json:"saving,omitempty"`
	SavingDC      string        `json:"savingDc,omitempty"`
	Range         string        `json:"range,omitempty"`
	Damage        []DamageEntry `json:"damage,omitempty"`
}

// RefreshRule describes how a resource recovers at a refresh point
type RefreshRule string

// Refresh rules
const (
	RefreshNone  RefreshRule = "none"
	RefreshAll   RefreshRule = "all"
	RefreshFixed RefreshRule = "fixed-value"
)

// Resource is a limited-use pool (ki points, rage uses, item charges)
type Resource struct {
	Name                     string      `json:"name"`
	Count                    int         `json:"count"`
	Max                      string      `json:"max"`
	RefreshOnLongRest        RefreshRule `json:"refreshOnLongRest"`
	RefreshOnLongRestAmount  string      `json:"refreshOnLongRestAmount,omitempty"`
	RefreshOnShortRest       RefreshRule `json:"refreshOnShortRest"`
	RefreshOnShortRestAmount string      `json:"refreshOnShortRestAmount,omitempty"`
	RefreshOnDawn            RefreshRule `json:"refreshOnDawn"`
	RefreshOnDawnAmount      string      `json:"refreshOnDawnAmount,omitempty"`
}

// PickerOption is one selectable option in a picker
type PickerOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Picker is a deferred player choice slot embedded in an effect container.
// Pickers are addressed by positional index within the owning container until
// the choice is committed.
type Picker struct {
	Label     string         `json:"label"`
	Options   []PickerOption `json:"options"`
	Mandatory bool           `json:"mandatory,omitempty"`
	Count     int            `json:"count,omitempty"`
}
