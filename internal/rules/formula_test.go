package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/rules"
)

func TestNormalizeFormula(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "ability abbreviation expands",
			input:    "1d8+@{str}",
			expected: "1d8+@{strength}",
		},
		{
			name:     "abbreviation with mod suffix",
			input:    "@{dex_mod}",
			expected: "@{dexterity-modifier}",
		},
		{
			name:     "full name with mod suffix",
			input:    "@{wisdom_mod}+2",
			expected: "@{wisdom-modifier}+2",
		},
		{
			name:     "case insensitive abbreviation",
			input:    "@{STR_mod}",
			expected: "@{strength-modifier}",
		},
		{
			name:     "other underscores become hyphens",
			input:    "8+@{proficiency_bonus}",
			expected: "8+@{proficiency-bonus}",
		},
		{
			name:     "non-placeholder text untouched",
			input:    "str_mod without braces",
			expected: "str_mod without braces",
		},
		{
			name:     "multiple placeholders",
			input:    "@{con_mod}+@{int}",
			expected: "@{constitution-modifier}+@{intelligence}",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rules.NormalizeFormula(tt.input))
		})
	}
}

func TestNormalizeFormula_Idempotent(t *testing.T) {
	inputs := []string{
		"@{str_mod}",
		"1d6+@{charisma-modifier}",
		"@{proficiency_bonus}+@{wis}",
		"plain text",
		"@{level}>=5?2d6:1d6",
	}

	for _, input := range inputs {
		once := rules.NormalizeFormula(input)
		twice := rules.NormalizeFormula(once)
		assert.Equal(t, once, twice, "normalizing %q twice changed the result", input)
	}
}

func TestNormalizeValue(t *testing.T) {
	input := map[string]any{
		"formula": "@{str_mod}+1",
		"nested": map[string]any{
			"list": []any{"@{dex}", float64(3), true},
		},
		"count": float64(2),
	}

	result := rules.NormalizeValue(input).(map[string]any)

	assert.Equal(t, "@{strength-modifier}+1", result["formula"])
	nested := result["nested"].(map[string]any)
	list := nested["list"].([]any)
	assert.Equal(t, "@{dexterity}", list[0])
	assert.Equal(t, float64(3), list[1])
	assert.Equal(t, true, list[2])
	assert.Equal(t, float64(2), result["count"])
}
