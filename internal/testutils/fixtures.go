package testutils

import (
	"encoding/json"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
)

// Canonical book identifiers for test pages
const (
	TestBookID   = "book-core"
	TestBookName = "Core Rules"
)

// PageWithRecords builds a compendium page carrying a modern datarecord array
func PageWithRecords(name string, records ...compendium.Record) *compendium.Page {
	data, err := json.Marshal(records)
	if err != nil {
		panic(err)
	}
	return &compendium.Page{
		ID:   "page_" + name,
		Name: name,
		Properties: compendium.PropertyBag{
			compendium.PropertyRecords: string(data),
		},
		Book: compendium.Book{Name: TestBookName, ItemID: TestBookID},
	}
}

// LegacySpellPage builds a legacy property-bag spell page
func LegacySpellPage(name string, props map[string]any) *compendium.Page {
	bag := compendium.PropertyBag{}
	for key, value := range props {
		bag[key] = value
	}
	return &compendium.Page{
		ID:         "page_" + name,
		Name:       name,
		Properties: bag,
		Book:       compendium.Book{Name: TestBookName, ItemID: TestBookID},
	}
}
