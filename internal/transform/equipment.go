package transform

import (
	"fmt"
	"strings"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/rules"
)

// EquipmentTransformer aggregates item pages. The Item record is the
// singleton carrying the core fields; Armor Class records combine into a
// single AC value or formula; Attack records pick up their standalone Damage
// children by parent name; everything else folds into the item's container.
type EquipmentTransformer struct{}

// Transform implements Transformer
func (t *EquipmentTransformer) Transform(page *compendium.Page) (content.Payload, error) {
	records, ok := page.Properties.Records()
	if !ok {
		return legacyEquipment(page), nil
	}

	payload := &content.EquipmentPayload{Name: page.Name}

	var item *itemRecord
	if rec, found := firstOfType(records, RecordItem); found {
		if decoded, err := decodeRecordPayload(rec.Payload); err == nil {
			item = decoded.(*itemRecord)
		}
	}
	if item != nil {
		payload.Type = item.ItemType
		payload.Description = item.Description
		payload.Properties = item.Properties
		payload.Cost = item.Cost
		if item.Weight != nil {
			payload.Weight = *item.Weight
		}
		if item.Quantity != nil {
			payload.Quantity = int(*item.Quantity)
		}
	}

	container := &content.EffectContainer{
		Label:   page.Name,
		Enabled: true,
	}

	applyArmorClass(payload, container, records, item)

	for _, rec := range records {
		switch recordTypeOf(rec.Payload) {
		case RecordItem, RecordArmorClass, RecordDamage, RecordUpcasting:
			continue
		case RecordAttack:
			buildItemAttack(container, rec, records)
		default:
			fragment := BuildFragment(rec, &BuildOptions{
				PickerIndexOffset: len(container.Pickers),
			})
			if fragment == nil {
				continue
			}
			payload.Description = joinText(payload.Description, fragment.Description)
			container.Absorb(fragment)
		}
	}

	container.Compact()
	if !container.IsEmpty() {
		payload.Effects = container
	}
	return payload, nil
}

// applyArmorClass folds the page's Armor Class records into one AC value. The
// last Set Base wins as the base, Modify values sum on top. Shields add
// flatly to whatever armor is worn; armor with a dexterity rider becomes a
// formula, capped when the item caps it.
func applyArmorClass(payload *content.EquipmentPayload, container *content.EffectContainer, records []compendium.Record, item *itemRecord) {
	var base float64
	haveBase := false
	var bonus float64

	for _, rec := range recordsOfType(records, RecordArmorClass) {
		decoded, err := decodeRecordPayload(rec.Payload)
		if err != nil {
			continue
		}
		ac := decoded.(*armorClassRecord)
		switch ac.Calculation {
		case "Set Base", "Set Base Final":
			base = flatValue(ac.calculated)
			haveBase = true
		default: // Modify
			bonus += flatValue(ac.calculated)
		}
	}

	if !haveBase && bonus == 0 {
		return
	}

	if item != nil && strings.EqualFold(item.ItemType, "Shield") {
		total := base + bonus
		container.Effects = append(container.Effects,
			content.ValueEffect("armor-class", content.OperationAdd, total))
		payload.ArmorClass = formatNumber(total)
		return
	}

	if !haveBase {
		container.Effects = append(container.Effects,
			content.ValueEffect("armor-class", content.OperationAdd, bonus))
		payload.ArmorClass = formatNumber(bonus)
		return
	}

	total := base + bonus
	if item != nil && item.Ability != "" {
		ability, _ := rules.ExpandAbility(item.Ability)
		modifier := rules.ModifierAttribute(ability)
		formula := formatNumber(total)
		if item.BonusCap != nil {
			formula += fmt.Sprintf("+@{%s|max:%s}", modifier, formatNumber(*item.BonusCap))
		} else {
			formula += fmt.Sprintf("+@{%s}", modifier)
		}
		container.Effects = append(container.Effects,
			content.FormulaEffect("armor-class", content.OperationSetBaseFinalFormula, formula))
		payload.ArmorClass = formula
		return
	}

	container.Effects = append(container.Effects,
		content.ValueEffect("armor-class", content.OperationSetBase, total))
	payload.ArmorClass = formatNumber(total)
}

// buildItemAttack builds one attack action, first folding in any standalone
// Damage records that name this attack as their parent
func buildItemAttack(container *content.EffectContainer, rec compendium.Record, records []compendium.Record) {
	decoded, err := decodeRecordPayload(rec.Payload)
	if err != nil {
		return
	}
	attack := decoded.(*attackRecord)

	for _, child := range records {
		if child.Parent != rec.Name || recordTypeOf(child.Payload) != RecordDamage {
			continue
		}
		childDecoded, err := decodeRecordPayload(child.Payload)
		if err != nil {
			continue
		}
		attack.Damage = append(attack.Damage, *childDecoded.(*damageRecord))
	}

	fragment := &content.Fragment{}
	buildAttack(fragment, rec.Name, attack)
	container.Absorb(fragment)
}
