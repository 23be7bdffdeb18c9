package drop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	compendiummock "github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium/mock"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/orchestrators/drop"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/testutils"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/transform"
)

func newHydrator(t *testing.T) (*drop.Hydrator, *compendiummock.MockClient) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := compendiummock.NewMockClient(ctrl)
	hydrator, err := drop.NewHydrator(&drop.HydratorConfig{
		Client:          client,
		Registry:        transform.NewRegistry(),
		PreferredBookID: testutils.TestBookID,
	})
	require.NoError(t, err)
	return hydrator, client
}

func TestHydrateSpells_ExpandsStub(t *testing.T) {
	hydrator, client := newHydrator(t)

	page := testutils.LegacySpellPage("Fire Bolt", map[string]any{
		"Level":  "0",
		"School": "Evocation",
		"Range":  "120 feet",
	})
	client.EXPECT().
		GetPages(gomock.Any(), &compendium.GetPagesInput{Category: content.CategorySpell, Name: "Fire Bolt"}).
		Return(&compendium.GetPagesOutput{Pages: []*compendium.Page{page}}, nil)

	out, err := hydrator.HydrateSpells(context.Background(), []content.Spell{{Name: "Fire Bolt"}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Evocation", out[0].School)
	assert.Equal(t, "120 feet", out[0].Range)
}

func TestHydrateSpells_StubFieldsWin(t *testing.T) {
	hydrator, client := newHydrator(t)

	page := testutils.LegacySpellPage("Fireball", map[string]any{
		"Level":  "3",
		"School": "Evocation",
	})
	client.EXPECT().
		GetPages(gomock.Any(), gomock.Any()).
		Return(&compendium.GetPagesOutput{Pages: []*compendium.Page{page}}, nil)

	stub := content.Spell{
		Name:          "Fireball",
		Level:         5,
		SpellSourceID: content.PendingSource(0),
	}
	out, err := hydrator.HydrateSpells(context.Background(), []content.Spell{stub})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 5, out[0].Level)
	assert.Equal(t, "Evocation", out[0].School)
	assert.True(t, out[0].SpellSourceID.IsPending())
}

func TestHydrateSpells_DropsNamelessStubs(t *testing.T) {
	hydrator, _ := newHydrator(t)

	out, err := hydrator.HydrateSpells(context.Background(), []content.Spell{{Level: 2}, {}})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestHydrateSpells_MissDegradesToStub(t *testing.T) {
	hydrator, client := newHydrator(t)

	client.EXPECT().
		GetPages(gomock.Any(), gomock.Any()).
		Return(&compendium.GetPagesOutput{}, nil)

	stub := content.Spell{Name: "Homebrew Blast", Level: 1}
	out, err := hydrator.HydrateSpells(context.Background(), []content.Spell{stub})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, stub, out[0])
}

func TestHydrateSpells_TransportFailureEmptiesResult(t *testing.T) {
	hydrator, client := newHydrator(t)

	good := testutils.LegacySpellPage("Fire Bolt", map[string]any{"Level": "0"})
	client.EXPECT().
		GetPages(gomock.Any(), &compendium.GetPagesInput{Category: content.CategorySpell, Name: "Fire Bolt"}).
		Return(&compendium.GetPagesOutput{Pages: []*compendium.Page{good}}, nil).
		AnyTimes()
	client.EXPECT().
		GetPages(gomock.Any(), &compendium.GetPagesInput{Category: content.CategorySpell, Name: "Ray of Frost"}).
		Return(nil, errors.Unavailable("compendium unreachable")).
		AnyTimes()

	out, err := hydrator.HydrateSpells(context.Background(), []content.Spell{
		{Name: "Fire Bolt"},
		{Name: "Ray of Frost"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsUnavailable(err))
	assert.Empty(t, out)
}

func TestHydrateSpells_PrefersMatchingBook(t *testing.T) {
	hydrator, client := newHydrator(t)

	other := testutils.LegacySpellPage("Shield", map[string]any{"Level": "1", "School": "Conjuration"})
	other.Book.ItemID = "book-other"
	preferred := testutils.LegacySpellPage("Shield", map[string]any{"Level": "1", "School": "Abjuration"})
	client.EXPECT().
		GetPages(gomock.Any(), gomock.Any()).
		Return(&compendium.GetPagesOutput{Pages: []*compendium.Page{other, preferred}}, nil)

	out, err := hydrator.HydrateSpells(context.Background(), []content.Spell{{Name: "Shield"}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Abjuration", out[0].School)
}
