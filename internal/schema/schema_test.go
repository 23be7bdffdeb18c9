package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/schema"
)

func TestValidator_AcceptsWellFormedPayloads(t *testing.T) {
	validator, err := schema.NewValidator()
	require.NoError(t, err)

	payloads := []content.Payload{
		&content.ClassPayload{
			Name:   "Fighter",
			HitDie: "d10",
			FeaturesByLevel: content.FeatureMap{
				"level-1": {{Name: "Second Wind", Description: "Heal up."}},
			},
		},
		&content.RacePayload{Name: "Hill Dwarf", Size: "Medium"},
		&content.BackgroundPayload{Name: "Sage", Description: "Bookish."},
		&content.EquipmentPayload{Name: "Longsword", Weight: 3, Quantity: 1},
		&content.SpellPayload{Name: "Fireball", Level: 3},
		&content.MonsterPayload{Name: "Goblin", ArmorClass: 15, Abilities: map[string]int{"strength": 8}},
	}

	for _, payload := range payloads {
		assert.NoError(t, validator.Validate(payload), "category %s", payload.PayloadCategory())
	}
}

func TestValidator_RejectsViolations(t *testing.T) {
	validator, err := schema.NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload content.Payload
	}{
		{"empty name", &content.ClassPayload{Name: ""}},
		{"bogus hit die", &content.ClassPayload{Name: "Fighter", HitDie: "d7"}},
		{"spell level out of range", &content.SpellPayload{Name: "Wish", Level: 10}},
		{"upcast below slot 1", &content.SpellPayload{
			Name: "Burst", Level: 1,
			Upcasts: []content.Upcast{{Level: 0}},
		}},
		{"monster ability score out of range", &content.MonsterPayload{
			Name: "Ooze", Abilities: map[string]int{"strength": 0},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.payload)
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidArgument, errors.GetCode(err))
		})
	}
}

func TestValidator_LevelMapKeysMustBePositive(t *testing.T) {
	validator, err := schema.NewValidator()
	require.NoError(t, err)

	payload := &content.ClassPayload{
		Name: "Fighter",
		FeaturesByLevel: content.FeatureMap{
			"level-0": {{Name: "Broken"}},
		},
	}
	require.Error(t, validator.Validate(payload))

	payload.FeaturesByLevel = content.FeatureMap{
		"level-20": {{Name: "Capstone"}},
	}
	assert.NoError(t, validator.Validate(payload))
}
