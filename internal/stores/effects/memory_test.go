package effects_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/idgen"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/effects"
)

func newRepo(t *testing.T) effects.Repository {
	t.Helper()
	repo, err := effects.NewMemory(&effects.MemoryConfig{
		IDGenerator: idgen.NewSequential("fx"),
	})
	require.NoError(t, err)
	return repo
}

func TestMemory_CommitsResolvedContainer(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, effects.CreateInput{
		CharacterID: "char_1",
		Container: content.EffectContainer{
			Label:   "Eldritch Invocations",
			Enabled: true,
			Spells: []content.Spell{
				{Name: "Eldritch Blast", SpellSourceID: content.ResolvedRef("src_3")},
			},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Container.ID)

	got, err := repo.Get(ctx, effects.GetInput{ID: created.Container.ID})
	require.NoError(t, err)
	assert.Equal(t, "src_3", got.Container.Spells[0].SpellSourceID.ID())
}

func TestMemory_RejectsPendingSourceReference(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.Create(context.Background(), effects.CreateInput{
		CharacterID: "char_1",
		Container: content.EffectContainer{
			Label: "Eldritch Invocations",
			Spells: []content.Spell{
				{Name: "Eldritch Blast", SpellSourceID: content.PendingSource(0)},
			},
		},
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeFailedPrecondition, errors.GetCode(err))
}

func TestMemory_RejectsPendingReferenceInNestedContainer(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.Create(context.Background(), effects.CreateInput{
		CharacterID: "char_1",
		Container: content.EffectContainer{
			Label: "Pact Boons",
			Spells: []content.Spell{
				{
					Name:          "Pact of the Tome",
					SpellSourceID: content.ResolvedRef("src_1"),
					Container: &content.EffectContainer{
						Spells: []content.Spell{
							{Name: "Guidance", SpellSourceID: content.PendingPicker(1)},
						},
					},
				},
			},
		},
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeFailedPrecondition, errors.GetCode(err))
}
