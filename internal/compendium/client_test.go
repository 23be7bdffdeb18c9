package compendium_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
)

func TestConfig_Validate(t *testing.T) {
	cfg := &compendium.Config{}
	assert.Error(t, cfg.Validate())

	cfg = &compendium.Config{BaseURL: "https://compendium.example.com"}
	require.NoError(t, cfg.Validate())
	assert.NotZero(t, cfg.HTTPTimeout)
}

func TestSelectPage(t *testing.T) {
	pages := []*compendium.Page{
		{ID: "p1", Book: compendium.Book{ItemID: "book-a"}},
		{ID: "p2", Book: compendium.Book{ItemID: "book-b"}},
	}

	selected := compendium.SelectPage(pages, "book-b")
	require.NotNil(t, selected)
	assert.Equal(t, "p2", selected.ID)

	assert.Nil(t, compendium.SelectPage(pages, "book-c"))
	assert.Nil(t, compendium.SelectPage(nil, "book-a"))
}

func TestSelectPreferred_FallsBackToFirst(t *testing.T) {
	pages := []*compendium.Page{
		{ID: "p1", Book: compendium.Book{ItemID: "book-a"}},
		{ID: "p2", Book: compendium.Book{ItemID: "book-b"}},
	}

	selected := compendium.SelectPreferred(pages, "book-z")
	require.NotNil(t, selected)
	assert.Equal(t, "p1", selected.ID)

	selected = compendium.SelectPreferred(pages, "book-b")
	require.NotNil(t, selected)
	assert.Equal(t, "p2", selected.ID)

	assert.Nil(t, compendium.SelectPreferred(nil, "book-a"))
}

func TestPropertyBag_Records(t *testing.T) {
	bag := compendium.PropertyBag{
		"data-datarecords": `[
			{"name": "Rage", "level": 1, "payload": "{\"type\":\"Features\"}"},
			{"name": "Frenzy", "level": "3", "parent": "Rage", "payload": "{\"type\":\"Features\"}"}
		]`,
	}

	records, ok := bag.Records()
	require.True(t, ok)
	require.Len(t, records, 2)
	assert.Equal(t, "Rage", records[0].Name)
	assert.Equal(t, 1, records[0].Level)
	assert.Equal(t, 3, records[1].Level, "numeric string levels decode")
	assert.Equal(t, "Rage", records[1].Parent)
}

func TestPropertyBag_Records_Absent(t *testing.T) {
	bag := compendium.PropertyBag{"Hit Die": "d12"}
	_, ok := bag.Records()
	assert.False(t, ok)
}

func TestPropertyBag_Records_MalformedArray(t *testing.T) {
	bag := compendium.PropertyBag{"data-datarecords": `{ not an array`}
	_, ok := bag.Records()
	assert.False(t, ok)
}

func TestPropertyBag_String(t *testing.T) {
	bag := compendium.PropertyBag{
		"Hit Die": " d10 ",
		"Level":   float64(3),
	}
	assert.Equal(t, "d10", bag.String("Hit Die"))
	assert.Equal(t, "", bag.String("Level"))
	assert.Equal(t, "", bag.String("missing"))
}
