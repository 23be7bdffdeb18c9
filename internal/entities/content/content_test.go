package content_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

func TestRef_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ref  content.Ref
		wire string
	}{
		{"pending source", content.PendingSource(2), `"$source:2"`},
		{"pending picker", content.PendingPicker(0), `"$picker:0"`},
		{"resolved", content.ResolvedRef("src_42"), `"src_42"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.wire, string(data))

			var decoded content.Ref
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.ref, decoded)
		})
	}
}

func TestParseRef(t *testing.T) {
	ref := content.ParseRef("$source:3")
	assert.True(t, ref.IsPending())
	assert.Equal(t, content.RefSource, ref.Kind())
	assert.Equal(t, 3, ref.Index())

	ref = content.ParseRef("$picker:1")
	assert.Equal(t, content.RefPicker, ref.Kind())
	assert.Equal(t, 1, ref.Index())

	ref = content.ParseRef("src_abc")
	assert.False(t, ref.IsPending())
	assert.Equal(t, "src_abc", ref.ID())

	// Garbage indices degrade to slot 0
	ref = content.ParseRef("$source:abc")
	assert.True(t, ref.IsPending())
	assert.Equal(t, 0, ref.Index())
}

func TestEffectContainer_AbsorbKeepsEverything(t *testing.T) {
	container := &content.EffectContainer{Label: "Test", Enabled: true}

	fragments := []*content.Fragment{
		{
			Effects: []content.Effect{content.ValueEffect("speed", content.OperationAdd, 10)},
			Pickers: []content.Picker{{Label: "Choose one"}},
		},
		{
			Effects:   []content.Effect{content.ValueEffect("armor-class", content.OperationSetBase, 13)},
			Actions:   []content.Action{{Name: "Bite", Group: content.GroupActions}},
			Resources: []content.Resource{{Name: "Charges", Count: 3, Max: "3"}},
		},
		{
			Spells:       []content.Spell{{Name: "Misty Step", Level: 2}},
			SpellSources: []content.SpellSource{{Name: "Innate"}},
		},
	}

	wantEffects, wantActions, wantResources := 0, 0, 0
	wantSpells, wantSources, wantPickers := 0, 0, 0
	for _, f := range fragments {
		wantEffects += len(f.Effects)
		wantActions += len(f.Actions)
		wantResources += len(f.Resources)
		wantSpells += len(f.Spells)
		wantSources += len(f.SpellSources)
		wantPickers += len(f.Pickers)
		container.Absorb(f)
	}

	assert.Len(t, container.Effects, wantEffects)
	assert.Len(t, container.Actions, wantActions)
	assert.Len(t, container.Resources, wantResources)
	assert.Len(t, container.Spells, wantSpells)
	assert.Len(t, container.SpellSources, wantSources)
	assert.Len(t, container.Pickers, wantPickers)
}

func TestEffectContainer_CompactOmitsEmptyArrays(t *testing.T) {
	container := &content.EffectContainer{
		Label:   "Trait",
		Enabled: true,
		Effects: []content.Effect{content.ValueEffect("darkvision", content.OperationSet, 60)},
		Actions: []content.Action{},
		Pickers: []content.Picker{},
	}
	container.Compact()

	data, err := json.Marshal(container)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "effects")
	assert.NotContains(t, decoded, "actions")
	assert.NotContains(t, decoded, "pickers")
	assert.NotContains(t, decoded, "spells")
}

func TestLevelKey(t *testing.T) {
	key, ok := content.LevelKey(3)
	assert.True(t, ok)
	assert.Equal(t, "level-3", key)

	for _, level := range []int{0, -1, -20} {
		_, ok := content.LevelKey(level)
		assert.False(t, ok, "level %d must be excluded", level)
	}
}

func TestFeatureMap_AddDropsNonPositiveLevels(t *testing.T) {
	m := content.FeatureMap{}
	m.Add(1, content.Feature{Name: "Rage"})
	m.Add(0, content.Feature{Name: "Lost"})
	m.Add(-1, content.Feature{Name: "Also Lost"})
	m.Add(3, content.Feature{Name: "Reckless Attack"})

	assert.Len(t, m, 2)
	assert.Equal(t, []int{1, 3}, m.Levels())
	for key := range m {
		_, ok := content.ParseLevelKey(key)
		assert.True(t, ok)
	}
}

func TestChannels_Extract(t *testing.T) {
	payload := &content.RacePayload{
		Name: "Elf",
		Channels: content.Channels{
			Tags: []string{"srd"},
			Features: []content.Feature{
				{Name: "Fey Ancestry", Description: "Advantage against charm"},
			},
		},
	}

	channels := payload.SideChannels().Extract()
	assert.Len(t, channels.Features, 1)
	assert.Equal(t, []string{"srd"}, channels.Tags)
	assert.Empty(t, payload.Features)
	assert.Empty(t, payload.Tags)
	assert.Equal(t, "Elf", payload.Name)
}

func TestParseCategory(t *testing.T) {
	for alias, want := range map[string]content.Category{
		"Spells":   content.CategorySpell,
		"spell":    content.CategorySpell,
		"Monsters": content.CategoryMonster,
		"Items":    content.CategoryEquipment,
	} {
		got, ok := content.ParseCategory(alias)
		assert.True(t, ok, alias)
		assert.Equal(t, want, got)
	}

	_, ok := content.ParseCategory("vehicles")
	assert.False(t, ok)
}
