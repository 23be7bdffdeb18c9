package transform

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// MaxSpellSlotLevel is the highest spell slot level upcasting can reach
const MaxSpellSlotLevel = 9

// SpellTransformer aggregates spell pages. Core fields come from properties
// on both the modern and legacy paths; Attack records become the spell's cast
// action; Upcasting records (or the legacy higher-slot-dice property) become
// the per-level upcast table.
type SpellTransformer struct{}

// Transform implements Transformer
func (t *SpellTransformer) Transform(page *compendium.Page) (content.Payload, error) {
	props := page.Properties
	payload := &content.SpellPayload{
		Name:          page.Name,
		School:        props.String("School"),
		CastingTime:   props.String("Casting Time"),
		Range:         props.String("Range"),
		Components:    props.String("Components"),
		Duration:      props.String("Duration"),
		Concentration: props.Bool("Concentration"),
		Ritual:        props.Bool("Ritual"),
		Description:   props.String("Description"),
		Damage:        props.String("Damage"),
		DamageType:    props.String("Damage Type"),
	}
	if level, ok := props.Number("Level"); ok {
		payload.Level = int(level)
	}
	payload.HigherLevels = props.String("At Higher Levels")
	if payload.HigherLevels == "" {
		payload.HigherLevels = props.String("Higher Spell Slot Desc")
	}

	records, ok := props.Records()
	if !ok {
		legacyUpcasts(payload, props)
		return payload, nil
	}

	container := &content.EffectContainer{
		Label:   page.Name,
		Enabled: true,
	}

	var upcastRecords []upcastRecordWithLevel
	for _, rec := range records {
		switch recordTypeOf(rec.Payload) {
		case RecordDamage, RecordItem:
			continue
		case RecordAttack:
			buildItemAttack(container, rec, records)
		case RecordUpcasting:
			decoded, err := decodeRecordPayload(rec.Payload)
			if err != nil {
				continue
			}
			upcastRecords = append(upcastRecords, upcastRecordWithLevel{
				record: decoded.(*upcastingRecord),
				level:  rec.Level,
			})
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

	applyUpcasts(payload, container, upcastRecords)

	container.Compact()
	if !container.IsEmpty() {
		payload.Effects = container
	}
	return payload, nil
}

type upcastRecordWithLevel struct {
	record *upcastingRecord
	level  int
}

// applyUpcasts routes each upcasting record by scaling type. Character-level
// scaling (cantrips) rewrites the damage as one nested ternary formula;
// per-spell-level scaling generates deltas from a start level up to slot 9;
// specific-spell-level scaling sets absolute values that cascade forward.
func applyUpcasts(payload *content.SpellPayload, container *content.EffectContainer, records []upcastRecordWithLevel) {
	var perLevel []upcastRecordWithLevel
	var specific []upcastRecordWithLevel
	var thresholds []upcastRecordWithLevel

	for _, entry := range records {
		scaling := strings.ToLower(entry.record.ScalingType)
		switch {
		case strings.Contains(scaling, "character"):
			thresholds = append(thresholds, entry)
		case strings.HasPrefix(scaling, "per"):
			perLevel = append(perLevel, entry)
		default:
			specific = append(specific, entry)
		}
	}

	if len(thresholds) > 0 {
		formula := cantripDamageFormula(payload.Damage, thresholds)
		payload.Damage = formula
		rewriteActionDamage(container, formula)
	}

	for _, entry := range perLevel {
		applyPerLevelUpcast(payload, entry)
	}
	if len(specific) > 0 {
		applySpecificUpcasts(payload, specific)
	}

	sort.SliceStable(payload.Upcasts, func(i, j int) bool {
		return payload.Upcasts[i].Level < payload.Upcasts[j].Level
	})
}

// cantripDamageFormula builds the nested ternary that picks the damage die
// count by character level: the highest threshold tests first, the base
// damage is the final fallback
func cantripDamageFormula(base string, thresholds []upcastRecordWithLevel) string {
	sorted := make([]upcastRecordWithLevel, len(thresholds))
	copy(sorted, thresholds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return upcastLevel(sorted[i]) < upcastLevel(sorted[j])
	})

	formula := base
	for _, entry := range sorted {
		if entry.record.Damage == "" {
			continue
		}
		formula = fmt.Sprintf("@{level}>=%d?%s:(%s)", upcastLevel(entry), entry.record.Damage, formula)
	}
	return formula
}

// upcastLevel reads the record's own level field, falling back to the
// enclosing record's level
func upcastLevel(entry upcastRecordWithLevel) int {
	if entry.record.Level != nil {
		return int(*entry.record.Level)
	}
	return entry.level
}

// rewriteActionDamage replaces the primary damage expression of the spell's
// first attack action
func rewriteActionDamage(container *content.EffectContainer, formula string) {
	for i := range container.Actions {
		if len(container.Actions[i].Damage) > 0 {
			container.Actions[i].Damage[0].Damage = formula
			return
		}
	}
}

func applyPerLevelUpcast(payload *content.SpellPayload, entry upcastRecordWithLevel) {
	start := upcastLevel(entry)
	if start <= payload.Level {
		start = payload.Level + 1
	}
	every := 1
	if entry.record.Every != nil && int(*entry.record.Every) > 1 {
		every = int(*entry.record.Every)
	}

	for level := start; level <= MaxSpellSlotLevel; level++ {
		steps := (level-start)/every + 1
		upcast := content.Upcast{Level: level}
		if entry.record.Damage != "" {
			upcast.Damage = addDice(payload.Damage, entry.record.Damage, steps)
		}
		if entry.record.Duration != "" {
			upcast.Duration = entry.record.Duration
		}
		if entry.record.Targets != nil {
			upcast.Targets = int(*entry.record.Targets) * steps
		}
		mergeUpcast(payload, upcast)
	}
}

// applySpecificUpcasts sets absolute values per slot level; a level's values
// cascade forward to every higher level not otherwise overridden
func applySpecificUpcasts(payload *content.SpellPayload, entries []upcastRecordWithLevel) {
	explicit := map[int]*upcastingRecord{}
	lowest := MaxSpellSlotLevel + 1
	for _, entry := range entries {
		level := upcastLevel(entry)
		if level < 1 || level > MaxSpellSlotLevel {
			continue
		}
		explicit[level] = entry.record
		if level < lowest {
			lowest = level
		}
	}
	if lowest > MaxSpellSlotLevel {
		return
	}

	var current *upcastingRecord
	for level := lowest; level <= MaxSpellSlotLevel; level++ {
		if rec, ok := explicit[level]; ok {
			current = rec
		}
		if current == nil || level <= payload.Level {
			continue
		}
		upcast := content.Upcast{
			Level:    level,
			Damage:   current.Damage,
			Duration: current.Duration,
		}
		if current.Targets != nil {
			upcast.Targets = int(*current.Targets)
		}
		mergeUpcast(payload, upcast)
	}
}

// mergeUpcast folds an upcast entry into the table, overlaying non-zero
// fields when the level already has an entry
func mergeUpcast(payload *content.SpellPayload, upcast content.Upcast) {
	for i := range payload.Upcasts {
		if payload.Upcasts[i].Level != upcast.Level {
			continue
		}
		if upcast.Damage != "" {
			payload.Upcasts[i].Damage = upcast.Damage
		}
		if upcast.Duration != "" {
			payload.Upcasts[i].Duration = upcast.Duration
		}
		if upcast.Targets != 0 {
			payload.Upcasts[i].Targets = upcast.Targets
		}
		return
	}
	payload.Upcasts = append(payload.Upcasts, upcast)
}

// legacyUpcasts expands the legacy higher-slot-dice property: each slot level
// above the spell's own adds that many dice of the spell's damage die
func legacyUpcasts(payload *content.SpellPayload, props compendium.PropertyBag) {
	dice, ok := props.Number("Higher Spell Slot Dice")
	if !ok || dice <= 0 || payload.Damage == "" || payload.Level < 1 {
		return
	}

	match := dicePattern.FindStringSubmatch(strings.TrimSpace(payload.Damage))
	if match == nil {
		return
	}
	delta := fmt.Sprintf("%dd%s", int(dice), match[2])

	for level := payload.Level + 1; level <= MaxSpellSlotLevel; level++ {
		payload.Upcasts = append(payload.Upcasts, content.Upcast{
			Level:  level,
			Damage: addDice(payload.Damage, delta, level-payload.Level),
		})
	}
}

// dicePattern matches a plain dice expression like "8d6"
var dicePattern = regexp.MustCompile(`^(\d+)d(\d+)$`)

// addDice adds a dice delta to a base expression N times. Matching die sizes
// combine into one term; anything else falls back to repeated addition.
func addDice(base, delta string, times int) string {
	if times < 1 {
		return base
	}
	baseMatch := dicePattern.FindStringSubmatch(strings.TrimSpace(base))
	deltaMatch := dicePattern.FindStringSubmatch(strings.TrimSpace(delta))
	if baseMatch != nil && deltaMatch != nil && baseMatch[2] == deltaMatch[2] {
		baseCount, _ := strconv.Atoi(baseMatch[1])
		deltaCount, _ := strconv.Atoi(deltaMatch[1])
		return fmt.Sprintf("%dd%s", baseCount+deltaCount*times, baseMatch[2])
	}
	if strings.TrimSpace(base) == "" {
		base = delta
		times--
	}
	return base + strings.Repeat("+"+delta, times)
}
