package spells_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/idgen"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/spells"
)

func newRepo(t *testing.T) spells.Repository {
	t.Helper()
	repo, err := spells.NewMemory(&spells.MemoryConfig{
		IDGenerator: idgen.NewSequential("src"),
	})
	require.NoError(t, err)
	return repo
}

func TestMemory_SourcesKeepCommitOrder(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Wizard", "Innate", "Ring of Spell Storing"} {
		_, err := repo.CreateSource(ctx, spells.CreateSourceInput{
			CharacterID: "char_1",
			Source:      content.SpellSource{Name: name},
		})
		require.NoError(t, err)
	}

	out, err := repo.ListSourcesByCharacter(ctx, spells.ListByCharacterInput{CharacterID: "char_1"})
	require.NoError(t, err)
	require.Len(t, out.Sources, 3)
	assert.Equal(t, "Wizard", out.Sources[0].Name)
	assert.Equal(t, "Innate", out.Sources[1].Name)
	assert.Equal(t, "Ring of Spell Storing", out.Sources[2].Name)
	assert.NotEqual(t, out.Sources[0].ID, out.Sources[1].ID)
}

func TestMemory_RejectsPendingSourceReference(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.CreateSpell(context.Background(), spells.CreateSpellInput{
		CharacterID: "char_1",
		Spell: content.Spell{
			Name:          "Fireball",
			SpellSourceID: content.PendingSource(0),
		},
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeFailedPrecondition, errors.GetCode(err))
}

func TestMemory_CommitsResolvedSpell(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.CreateSpell(ctx, spells.CreateSpellInput{
		CharacterID: "char_1",
		Spell: content.Spell{
			Name:          "Fireball",
			Level:         3,
			SpellSourceID: content.ResolvedRef("src_9"),
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Spell.ID)

	got, err := repo.GetSpell(ctx, spells.GetSpellInput{ID: created.Spell.ID})
	require.NoError(t, err)
	assert.Equal(t, "src_9", got.Spell.SpellSourceID.ID())
}
