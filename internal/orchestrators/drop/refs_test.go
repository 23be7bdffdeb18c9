package drop

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

func TestResolveRef(t *testing.T) {
	ids := []string{"src_1", "src_2", "src_3"}

	tests := []struct {
		name string
		ref  content.Ref
		ids  []string
		want string
	}{
		{name: "in range", ref: content.PendingSource(1), ids: ids, want: "src_2"},
		{name: "picker in range", ref: content.PendingPicker(2), ids: ids, want: "src_3"},
		{name: "out of range defaults to first", ref: content.PendingSource(7), ids: ids, want: "src_1"},
		{name: "negative defaults to first", ref: content.ParseRef("$source:-1"), ids: ids, want: "src_1"},
		{name: "already resolved untouched", ref: content.ResolvedRef("src_9"), ids: ids, want: "src_9"},
		{name: "no sources clears the reference", ref: content.PendingSource(0), ids: nil, want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveRef(tc.ref, tc.ids)
			assert.False(t, got.IsPending())
			assert.Equal(t, tc.want, got.ID())
		})
	}
}

func TestResolveSpellRefsRewritesNestedContainers(t *testing.T) {
	ids := []string{"src_1", "src_2"}
	toResolve := []content.Spell{
		{
			Name:          "Fireball",
			SpellSourceID: content.PendingSource(1),
			Container: &content.EffectContainer{
				Spells: []content.Spell{
					{Name: "Scorching Ray", SpellSourceID: content.PendingSource(0)},
				},
			},
		},
	}

	resolveSpellRefs(toResolve, ids)

	assert.Equal(t, "src_2", toResolve[0].SpellSourceID.ID())
	assert.Equal(t, "src_1", toResolve[0].Container.Spells[0].SpellSourceID.ID())
}

func TestFlattenOrdersByLevel(t *testing.T) {
	byLevel := content.FeatureMap{}
	byLevel.Add(5, content.Feature{Name: "Extra Attack"})
	byLevel.Add(1, content.Feature{Name: "Rage"})
	byLevel.Add(1, content.Feature{Name: "Unarmored Defense"})

	flat := flatten(byLevel)

	names := make([]string, 0, len(flat))
	levels := make([]int, 0, len(flat))
	for _, lf := range flat {
		names = append(names, lf.feature.Name)
		levels = append(levels, lf.level)
	}
	assert.Equal(t, []string{"Rage", "Unarmored Defense", "Extra Attack"}, names)
	assert.Equal(t, []int{1, 1, 5}, levels)
}

func TestMergeStubStubWins(t *testing.T) {
	full := content.Spell{
		Name:        "Fireball",
		Level:       3,
		School:      "Evocation",
		Range:       "150 feet",
		Description: "A bright streak flashes.",
	}
	stub := content.Spell{
		Name:          "Fireball",
		Level:         5,
		SpellSourceID: content.ResolvedRef("src_1"),
	}

	merged := mergeStub(stub, full)

	assert.Equal(t, 5, merged.Level)
	assert.Equal(t, "Evocation", merged.School)
	assert.Equal(t, "150 feet", merged.Range)
	assert.Equal(t, "src_1", merged.SpellSourceID.ID())
}
