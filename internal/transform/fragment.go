package transform

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/rules"
)

// BuildOptions adjusts how a fragment is built
type BuildOptions struct {
	// PickerIndexOffset shifts the positional index of emitted pickers.
	// Callers aggregating multiple choice records into one container pass the
	// number of pickers already present so indices do not collide.
	PickerIndexOffset int
}

// actionGroups maps a record's actionType to the sheet section it lands in
var actionGroups = map[string]content.ActionGroup{
	"Action":       content.GroupActions,
	"Bonus Action": content.GroupBonusActions,
	"Reaction":     content.GroupReactions,
	"Free Action":  content.GroupFreeActions,
	"Other":        content.GroupFreeActions,
}

// BuildFragment transforms one record into an effect fragment. A record
// whose payload is not valid structured data yields nil with a logged
// warning; callers treat nil as "contributes nothing" and keep processing
// siblings. Records that are merely inert in this context (Damage children,
// aggregator singletons, classification markers) yield an empty fragment.
func BuildFragment(rec compendium.Record, opts *BuildOptions) *content.Fragment {
	if opts == nil {
		opts = &BuildOptions{}
	}

	payload, err := decodeRecordPayload(rec.Payload)
	if err != nil {
		slog.Warn("Skipping malformed record", "record", rec.Name, "error", err)
		return nil
	}

	fragment := &content.Fragment{}
	switch p := payload.(type) {
	case *featuresRecord:
		fragment.Description = p.Description
	case *attackRecord:
		buildAttack(fragment, rec.Name, p)
	case *damageRecord:
		// Damage children only matter to their parent Attack record
	case *proficiencyRecord:
		buildProficiency(fragment, p)
	case *resourceRecord:
		buildResource(fragment, rec.Name, p)
	case *abilityScoreRecord:
		buildAbilityScore(fragment, p)
	case *abilityScoreChoiceRecord:
		buildAbilityScoreChoice(fragment, rec.Name, p, opts.PickerIndexOffset)
	case *spellcastingRecord:
		buildSpellcasting(fragment, rec.Name, p)
	case *spellAttachRecord:
		buildSpellAttach(fragment, p)
	case *armorClassRecord:
		fragment.Effects = append(fragment.Effects, calculatedEffect("armor-class", p.calculated))
	case *speedRecord:
		fragment.Effects = append(fragment.Effects, calculatedEffect(speedAttribute(p.SpeedType), p.calculated))
	case *senseRecord:
		fragment.Effects = append(fragment.Effects, calculatedEffect(rules.CanonicalName(p.Sense), p.calculated))
	case *languageRecord:
		buildLanguage(fragment, rec.Name, p, opts.PickerIndexOffset)
	case *defenseRecord:
		buildDefense(fragment, p)
	case *rollBonusRecord:
		buildRollBonus(fragment, p)
	case *itemRecord:
		// Consumed as a singleton by the equipment aggregator
	case *upcastingRecord:
		// Consumed by the spell aggregator
	case *classDetailsRecord:
		buildClassDetails(fragment, p)
	case *hitDiceRecord:
		// Consumed as a singleton by the class aggregator
	case *spellChoiceRecord:
		// Consumed by the class spell-progression pass
	case *speciesRecord, *sizeRecord:
		// Classification markers only, never effects
	}

	return fragment
}

func buildAttack(fragment *content.Fragment, name string, p *attackRecord) {
	group, ok := actionGroups[p.ActionType]
	if !ok {
		group = content.GroupActions
	}

	action := content.Action{
		Name:        name,
		Group:       group,
		Description: p.Description,
		IsAttack:    p.IsAttack,
		Range:       p.Range,
	}

	if p.IsAttack {
		action.AttackAbility = "auto"
		if p.Ability != "" {
			action.AttackAbility, _ = rules.ExpandAbility(p.Ability)
		}
		action.AttackBonus = "0"
		if p.Bonus != nil {
			action.AttackBonus = formatNumber(*p.Bonus)
		}
	}

	if p.Saving != "" {
		saving, _ := rules.ExpandAbility(p.Saving)
		action.Saving = saving
		if p.FlatDC != nil {
			action.SavingDC = formatNumber(*p.FlatDC)
		} else {
			dcAbility := p.DCAbility
			if dcAbility == "" {
				dcAbility = p.Ability
			}
			full, _ := rules.ExpandAbility(dcAbility)
			action.SavingDC = fmt.Sprintf("8+@{proficiency}+@{%s}", rules.ModifierAttribute(full))
		}
	}

	for _, dmg := range p.Damage {
		action.Damage = append(action.Damage, damageEntry(dmg, action.AttackAbility))
	}

	fragment.Actions = append(fragment.Actions, action)
}

// damageEntry converts a damage record, inheriting the parent attack's
// ability when the entry says "auto"
func damageEntry(dmg damageRecord, parentAbility string) content.DamageEntry {
	ability := dmg.Ability
	if ability == "auto" || ability == "" {
		ability = parentAbility
	} else {
		ability, _ = rules.ExpandAbility(ability)
	}
	return content.DamageEntry{
		Ability:    ability,
		Damage:     damageString(dmg),
		Type:       dmg.DamageType,
		CritDamage: dmg.CritDamage,
	}
}

// damageString appends the record's bonus to the dice expression: a formula
// bonus becomes a parenthesized addend, a numeric bonus a signed suffix
func damageString(dmg damageRecord) string {
	base := dmg.Damage
	switch {
	case dmg.BonusAttr != "":
		return fmt.Sprintf("%s+(%s)", base, dmg.BonusAttr)
	case dmg.Bonus != nil && *dmg.Bonus != 0:
		return fmt.Sprintf("%s%+d", base, int(*dmg.Bonus))
	default:
		return base
	}
}

func buildProficiency(fragment *content.Fragment, p *proficiencyRecord) {
	switch p.Category {
	case "Saving Throw":
		ability, _ := rules.ExpandAbility(p.Name)
		fragment.Effects = append(fragment.Effects,
			content.ValueEffect(ability+"-save-proficiency", content.OperationSet, float64(1)))
	case "Skill":
		// Proficiency multiplier: 1 proficient, 2 expertise. set-max so a
		// second record can upgrade but never downgrade.
		value := float64(1)
		if p.Expertise {
			value = 2
		}
		skill := rules.CanonicalName(p.Name)
		fragment.Effects = append(fragment.Effects,
			content.ValueEffect(skill+"-proficiency", content.OperationSetMax, value))
	case "Armor":
		fragment.Effects = append(fragment.Effects,
			content.ValueEffect("armor-proficiencies", content.OperationPush, p.Name))
	case "Weapon":
		fragment.Effects = append(fragment.Effects,
			content.ValueEffect("weapon-proficiencies", content.OperationPush, p.Name))
	case "Tool":
		fragment.Effects = append(fragment.Effects,
			content.ValueEffect("tool-proficiencies", content.OperationPush, p.Name))
	default:
		fragment.Effects = append(fragment.Effects,
			content.ValueEffect("proficiencies", content.OperationPush, p.Name))
	}
}

// rechargePeriods maps structured recharge keys to resource fields
var rechargePeriods = []string{"Long Rest", "Short Rest", "Dawn"}

func buildResource(fragment *content.Fragment, name string, p *resourceRecord) {
	resource := content.Resource{
		Name:               name,
		Max:                resourceMax(p),
		RefreshOnLongRest:  content.RefreshNone,
		RefreshOnShortRest: content.RefreshNone,
		RefreshOnDawn:      content.RefreshNone,
	}
	if p.Name != "" {
		resource.Name = p.Name
	}
	if p.Count != nil {
		resource.Count = int(*p.Count)
	} else if flat, err := strconv.Atoi(resource.Max); err == nil {
		resource.Count = flat
	}

	if len(p.Recharge) > 0 {
		for _, period := range rechargePeriods {
			recharge, ok := p.Recharge[period]
			if !ok {
				continue
			}
			rule, amount := resolveRecharge(recharge)
			applyRefresh(&resource, period, rule, amount)
		}
	} else if p.Recovery != "" {
		// Legacy (recovery, recoveryRate) string pair
		rule, amount := resolveLegacyRecovery(p.RecoveryRate)
		applyRefresh(&resource, p.Recovery, rule, amount)
	}

	fragment.Resources = append(fragment.Resources, resource)
}

// resourceMax renders the max pool size. A classLevel scaling wins over the
// flat max; a multiplier of 1 collapses to $ownerlevel with no coefficient.
func resourceMax(p *resourceRecord) string {
	if p.ClassLevel != nil {
		if p.ClassLevel.Multiplier == 1 {
			return "$ownerlevel"
		}
		return fmt.Sprintf("%s*$ownerlevel", formatNumber(p.ClassLevel.Multiplier))
	}
	switch v := p.Max.(type) {
	case float64:
		return formatNumber(v)
	case string:
		return v
	default:
		return ""
	}
}

func resolveRecharge(r rechargeRecord) (content.RefreshRule, string) {
	switch r.Type {
	case "Full":
		return content.RefreshAll, ""
	case "Calculation":
		return content.RefreshFixed, r.Formula
	case "Roll":
		return content.RefreshFixed, r.Roll
	default:
		if r.Amount != nil {
			return content.RefreshFixed, formatNumber(*r.Amount)
		}
		return content.RefreshNone, ""
	}
}

func resolveLegacyRecovery(rate string) (content.RefreshRule, string) {
	trimmed := strings.TrimSpace(rate)
	if trimmed == "" || strings.EqualFold(trimmed, "All") {
		return content.RefreshAll, ""
	}
	return content.RefreshFixed, trimmed
}

func applyRefresh(resource *content.Resource, period string, rule content.RefreshRule, amount string) {
	switch period {
	case "Long Rest":
		resource.RefreshOnLongRest = rule
		resource.RefreshOnLongRestAmount = amount
	case "Short Rest":
		resource.RefreshOnShortRest = rule
		resource.RefreshOnShortRestAmount = amount
	case "Dawn":
		resource.RefreshOnDawn = rule
		resource.RefreshOnDawnAmount = amount
	}
}

func buildAbilityScore(fragment *content.Fragment, p *abilityScoreRecord) {
	ability, _ := rules.ExpandAbility(p.Ability)
	if p.Formula != "" {
		fragment.Effects = append(fragment.Effects,
			content.FormulaEffect(ability, content.OperationAddFormula, p.Formula))
		return
	}
	value := float64(1)
	if p.Value != nil {
		value = *p.Value
	}
	fragment.Effects = append(fragment.Effects,
		content.ValueEffect(ability, content.OperationAdd, value))
}

func buildAbilityScoreChoice(fragment *content.Fragment, name string, p *abilityScoreChoiceRecord, offset int) {
	count := 1
	if p.Choose != nil {
		count = int(*p.Choose)
	}
	amount := float64(1)
	if p.Value != nil {
		amount = *p.Value
	}

	options := p.Options
	if len(options) == 0 {
		options = rules.Abilities
	}
	pickerOptions := make([]content.PickerOption, 0, len(options))
	for _, option := range options {
		full, _ := rules.ExpandAbility(option)
		pickerOptions = append(pickerOptions, content.PickerOption{
			Label: titleCase(full),
			Value: full,
		})
	}

	label := name
	if label == "" {
		label = "Ability Score Choice"
	}

	for i := 0; i < count; i++ {
		index := offset + len(fragment.Pickers)
		fragment.Pickers = append(fragment.Pickers, content.Picker{
			Label:     label,
			Options:   pickerOptions,
			Mandatory: true,
		})
		fragment.Effects = append(fragment.Effects,
			content.ValueEffect(content.PickerAttribute(index), content.OperationAdd, amount))
	}
}

func buildSpellcasting(fragment *content.Fragment, name string, p *spellcastingRecord) {
	ability, _ := rules.ExpandAbility(p.Ability)
	sourceName := p.Name
	if sourceName == "" {
		sourceName = name
	}

	modifier := rules.ModifierAttribute(ability)
	fragment.SpellSources = append(fragment.SpellSources, content.SpellSource{
		Name:       sourceName,
		Ability:    ability,
		SaveDC:     fmt.Sprintf("8+@{proficiency}+@{%s}", modifier),
		AttackMod:  fmt.Sprintf("@{proficiency}+@{%s}", modifier),
		IsPrepared: p.IsPrepared,
	})
}

func buildSpellAttach(fragment *content.Fragment, p *spellAttachRecord) {
	// Attachment always targets the first spell source declared alongside it;
	// which source that actually is gets decided at commit time.
	for _, name := range p.Spells {
		if strings.TrimSpace(name) == "" {
			continue
		}
		fragment.Spells = append(fragment.Spells, content.Spell{
			Name:          name,
			SpellSourceID: content.PendingSource(0),
		})
	}
}

func buildLanguage(fragment *content.Fragment, name string, p *languageRecord, offset int) {
	for _, language := range p.Languages {
		if strings.TrimSpace(language) == "" {
			continue
		}
		fragment.Effects = append(fragment.Effects,
			content.ValueEffect("languages", content.OperationPush, language))
	}

	if p.NumOfChoices == nil || *p.NumOfChoices < 1 {
		return
	}

	pickerOptions := make([]content.PickerOption, 0, len(p.Options))
	for _, option := range p.Options {
		pickerOptions = append(pickerOptions, content.PickerOption{Label: option, Value: option})
	}

	label := name
	if label == "" {
		label = "Language Choice"
	}

	count := int(*p.NumOfChoices)
	for i := 0; i < count; i++ {
		index := offset + len(fragment.Pickers)
		fragment.Pickers = append(fragment.Pickers, content.Picker{
			Label:     label,
			Options:   pickerOptions,
			Mandatory: true,
		})
		fragment.Effects = append(fragment.Effects,
			content.ValueEffect(content.PickerAttribute(index), content.OperationPush, float64(1)))
	}
}

// defenseAttributes maps a defense type to its list attribute
var defenseAttributes = map[string]string{
	"Resistance":    "damage-resistances",
	"Immunity":      "damage-immunities",
	"Vulnerability": "damage-vulnerabilities",
}

func buildDefense(fragment *content.Fragment, p *defenseRecord) {
	attribute, ok := defenseAttributes[p.DefenseType]
	if !ok {
		attribute = "damage-resistances"
	}
	fragment.Effects = append(fragment.Effects,
		content.ValueEffect(attribute, content.OperationPush, p.DamageType))
}

func buildRollBonus(fragment *content.Fragment, p *rollBonusRecord) {
	// Only advantage-shaped bonuses are meaningful here; anything else
	// contributes nothing (but the fragment stays non-nil).
	var value float64
	switch p.Bonus {
	case "Keep Highest":
		value = 1
	case "Keep Lowest":
		value = -1
	default:
		return
	}

	attribute := rules.CanonicalName(p.Target) + "-action-die"
	fragment.Effects = append(fragment.Effects,
		content.ValueEffect(attribute, content.OperationAdd, value))
}

func buildClassDetails(fragment *content.Fragment, p *classDetailsRecord) {
	fragment.Description = p.Description
	for _, save := range p.SavingThrows {
		ability, _ := rules.ExpandAbility(save)
		fragment.Effects = append(fragment.Effects,
			content.ValueEffect(ability+"-save-proficiency", content.OperationSet, float64(1)))
	}
}

// calculatedEffect derives the attribute mutation for records whose
// operation is selected by a calculation field. Formula presence picks the
// formula-suffixed operation.
func calculatedEffect(attribute string, c calculated) content.Effect {
	hasFormula := c.Formula != ""

	switch c.Calculation {
	case "Set Base":
		if hasFormula {
			return content.FormulaEffect(attribute, content.OperationSetBaseFinalFormula, c.Formula)
		}
		return content.ValueEffect(attribute, content.OperationSetBase, flatValue(c))
	case "Set Base Final":
		if hasFormula {
			return content.FormulaEffect(attribute, content.OperationSetBaseFinalFormula, c.Formula)
		}
		return content.ValueEffect(attribute, content.OperationSetBaseFinal, flatValue(c))
	default: // Modify
		if hasFormula {
			return content.FormulaEffect(attribute, content.OperationAddFormula, c.Formula)
		}
		return content.ValueEffect(attribute, content.OperationAdd, flatValue(c))
	}
}

func flatValue(c calculated) float64 {
	if c.FlatValue != nil {
		return *c.FlatValue
	}
	return 0
}

func speedAttribute(speedType string) string {
	switch strings.ToLower(strings.TrimSpace(speedType)) {
	case "", "walking", "walk":
		return "speed"
	default:
		return rules.CanonicalName(speedType) + "-speed"
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
