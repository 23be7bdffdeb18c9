// Package transform turns raw compendium records into normalized content
// payloads: one fragment per record, merged through parent/child record
// trees into per-category payloads.
package transform

import (
	"encoding/json"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/rules"
)

// RecordType is the type tag carried by every record payload
type RecordType string

// Record types. The set is closed: decodeRecordPayload matches each one and
// rejects anything else, so adding a type means adding a variant here, a
// payload struct, and a fragment handler.
const (
	RecordFeatures           RecordType = "Features"
	RecordAttack             RecordType = "Attack"
	RecordDamage             RecordType = "Damage"
	RecordProficiency        RecordType = "Proficiency"
	RecordResource           RecordType = "Resource"
	RecordAbilityScore       RecordType = "Ability Score"
	RecordAbilityScoreChoice RecordType = "Ability Score Choice"
	RecordSpellcasting       RecordType = "Spellcasting"
	RecordSpellAttach        RecordType = "Spell Attach"
	RecordArmorClass         RecordType = "Armor Class"
	RecordSpeed              RecordType = "Speed"
	RecordSense              RecordType = "Sense"
	RecordLanguage           RecordType = "Language"
	RecordDefense            RecordType = "Defense"
	RecordRollBonus          RecordType = "Roll Bonus"
	RecordItem               RecordType = "Item"
	RecordUpcasting          RecordType = "Upcasting"
	RecordClassDetails       RecordType = "Class Details"
	RecordHitDice            RecordType = "Hit Dice"
	RecordSpellChoice        RecordType = "Spell Choice"
	RecordSpecies            RecordType = "Species"
	RecordSize               RecordType = "Size"
)

// recordPayload is the closed union over decoded record payloads
type recordPayload interface {
	recordType() RecordType
}

// featuresRecord is a named feature block with free-text description
type featuresRecord struct {
	Description string `json:"description"`
}

func (featuresRecord) recordType() RecordType { return RecordFeatures }

// damageRecord is one damage roll; standalone Damage records are matched to
// their parent Attack record by name
type damageRecord struct {
	Ability    string   `json:"ability"`
	Damage     string   `json:"damage"`
	DamageType string   `json:"damageType"`
	CritDamage string   `json:"critDamage"`
	Bonus      *float64 `json:"bonus"`
	BonusAttr  string   `json:"_bonus"`
}

func (damageRecord) recordType() RecordType { return RecordDamage }

// attackRecord is an action or attack
type attackRecord struct {
	ActionType  string         `json:"actionType"`
	Description string         `json:"description"`
	IsAttack    bool           `json:"isAttack"`
	Ability     string         `json:"ability"`
	Bonus       *float64       `json:"bonus"`
	Saving      string         `json:"saving"`
	FlatDC      *float64       `json:"flatDc"`
	DCAbility   string         `json:"dcAbility"`
	Range       string         `json:"range"`
	Damage      []damageRecord `json:"damage"`
}

func (attackRecord) recordType() RecordType { return RecordAttack }

type proficiencyRecord struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	Expertise bool   `json:"expertise"`
}

func (proficiencyRecord) recordType() RecordType { return RecordProficiency }

// rechargeRecord describes recovery for one refresh period
type rechargeRecord struct {
	Type    string   `json:"type"`
	Amount  *float64 `json:"amount"`
	Formula string   `json:"formula"`
	Roll    string   `json:"roll"`
}

type classLevelScaling struct {
	Multiplier float64 `json:"multiplier"`
}

type resourceRecord struct {
	Name       string                    `json:"name"`
	Count      *float64                  `json:"count"`
	Max        any                       `json:"max"`
	ClassLevel *classLevelScaling        `json:"classLevel"`
	Recharge   map[string]rechargeRecord `json:"recharge"`

	// Legacy string-pair recovery
	Recovery     string `json:"recovery"`
	RecoveryRate string `json:"recoveryRate"`
}

func (resourceRecord) recordType() RecordType { return RecordResource }

type abilityScoreRecord struct {
	Ability string   `json:"ability"`
	Value   *float64 `json:"value"`
	Formula string   `json:"formula"`
}

func (abilityScoreRecord) recordType() RecordType { return RecordAbilityScore }

type abilityScoreChoiceRecord struct {
	Choose  *float64 `json:"choose"`
	Options []string `json:"options"`
	Value   *float64 `json:"value"`
}

func (abilityScoreChoiceRecord) recordType() RecordType { return RecordAbilityScoreChoice }

type spellcastingRecord struct {
	Name       string `json:"name"`
	Ability    string `json:"ability"`
	IsPrepared bool   `json:"isPrepared"`
}

func (spellcastingRecord) recordType() RecordType { return RecordSpellcasting }

type spellAttachRecord struct {
	Spells []string `json:"spells"`
}

func (spellAttachRecord) recordType() RecordType { return RecordSpellAttach }

// calculated is the shared shape of records whose operation is driven by a
// calculation field plus a flat-or-formula value
type calculated struct {
	Calculation string   `json:"calculation"`
	FlatValue   *float64 `json:"flatValue"`
	Formula     string   `json:"formula"`
}

type armorClassRecord struct {
	calculated
}

func (armorClassRecord) recordType() RecordType { return RecordArmorClass }

type speedRecord struct {
	calculated
	SpeedType string `json:"speedType"`
}

func (speedRecord) recordType() RecordType { return RecordSpeed }

type senseRecord struct {
	calculated
	Sense string `json:"sense"`
}

func (senseRecord) recordType() RecordType { return RecordSense }

type languageRecord struct {
	Languages    []string `json:"languages"`
	NumOfChoices *float64 `json:"numOfChoices"`
	Options      []string `json:"options"`
}

func (languageRecord) recordType() RecordType { return RecordLanguage }

type defenseRecord struct {
	DefenseType string `json:"defenseType"`
	DamageType  string `json:"damageType"`
}

func (defenseRecord) recordType() RecordType { return RecordDefense }

type rollBonusRecord struct {
	Target string `json:"target"`
	Bonus  string `json:"bonus"`
}

func (rollBonusRecord) recordType() RecordType { return RecordRollBonus }

type itemRecord struct {
	ItemType    string   `json:"itemType"`
	Description string   `json:"description"`
	Properties  []string `json:"properties"`
	Weight      *float64 `json:"weight"`
	Cost        string   `json:"cost"`
	Quantity    *float64 `json:"quantity"`
	BonusCap    *float64 `json:"bonusCap"`
	Ability     string   `json:"ability"`
}

func (itemRecord) recordType() RecordType { return RecordItem }

type upcastingRecord struct {
	ScalingType string   `json:"scalingType"`
	Level       *float64 `json:"level"`
	Every       *float64 `json:"every"`
	Damage      string   `json:"damage"`
	Duration    string   `json:"duration"`
	Targets     *float64 `json:"targets"`
}

func (upcastingRecord) recordType() RecordType { return RecordUpcasting }

type classDetailsRecord struct {
	Description  string   `json:"description"`
	SavingThrows []string `json:"savingThrows"`
}

func (classDetailsRecord) recordType() RecordType { return RecordClassDetails }

type hitDiceRecord struct {
	Die string `json:"die"`
}

func (hitDiceRecord) recordType() RecordType { return RecordHitDice }

type spellChoiceRecord struct {
	SpellLevel *float64 `json:"spellLevel"`
	Choices    *float64 `json:"choices"`
}

func (spellChoiceRecord) recordType() RecordType { return RecordSpellChoice }

// speciesRecord and sizeRecord exist only as classification markers on race
// pages; they never contribute a fragment
type speciesRecord struct {
	Species string `json:"species"`
}

func (speciesRecord) recordType() RecordType { return RecordSpecies }

type sizeRecord struct {
	Size string `json:"size"`
}

func (sizeRecord) recordType() RecordType { return RecordSize }

// decodeRecordPayload decodes a record's JSON payload, normalizes embedded
// formulas, and returns the typed payload. Malformed JSON and unknown type
// tags come back as InvalidArgument errors; callers log and skip the record.
func decodeRecordPayload(payload string) (recordPayload, error) {
	var raw any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "record payload is not valid JSON")
	}

	normalized, err := json.Marshal(rules.NormalizeValue(raw))
	if err != nil {
		return nil, errors.Wrap(err, "failed to re-encode normalized payload")
	}

	var tag struct {
		Type RecordType `json:"type"`
	}
	if err := json.Unmarshal(normalized, &tag); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "record payload has no type tag")
	}

	decode := func(target recordPayload) (recordPayload, error) {
		if err := json.Unmarshal(normalized, target); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "record payload does not match its type")
		}
		return target, nil
	}

	switch tag.Type {
	case RecordFeatures:
		return decode(&featuresRecord{})
	case RecordAttack:
		return decode(&attackRecord{})
	case RecordDamage:
		return decode(&damageRecord{})
	case RecordProficiency:
		return decode(&proficiencyRecord{})
	case RecordResource:
		return decode(&resourceRecord{})
	case RecordAbilityScore:
		return decode(&abilityScoreRecord{})
	case RecordAbilityScoreChoice:
		return decode(&abilityScoreChoiceRecord{})
	case RecordSpellcasting:
		return decode(&spellcastingRecord{})
	case RecordSpellAttach:
		return decode(&spellAttachRecord{})
	case RecordArmorClass:
		return decode(&armorClassRecord{})
	case RecordSpeed:
		return decode(&speedRecord{})
	case RecordSense:
		return decode(&senseRecord{})
	case RecordLanguage:
		return decode(&languageRecord{})
	case RecordDefense:
		return decode(&defenseRecord{})
	case RecordRollBonus:
		return decode(&rollBonusRecord{})
	case RecordItem:
		return decode(&itemRecord{})
	case RecordUpcasting:
		return decode(&upcastingRecord{})
	case RecordClassDetails:
		return decode(&classDetailsRecord{})
	case RecordHitDice:
		return decode(&hitDiceRecord{})
	case RecordSpellChoice:
		return decode(&spellChoiceRecord{})
	case RecordSpecies:
		return decode(&speciesRecord{})
	case RecordSize:
		return decode(&sizeRecord{})
	default:
		return nil, errors.InvalidArgumentf("unknown record type %q", tag.Type)
	}
}

// recordTypeOf peeks at a record payload's type tag without a full decode
func recordTypeOf(payload string) RecordType {
	var tag struct {
		Type RecordType `json:"type"`
	}
	if err := json.Unmarshal([]byte(payload), &tag); err != nil {
		return ""
	}
	return tag.Type
}
