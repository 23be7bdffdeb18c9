package drop_test

import (
	"context"
	"sync"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	compendiummock "github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium/mock"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/orchestrators/drop"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/idgen"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/schema"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/effects"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/equipment"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/features"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/progression"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/roster"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/spells"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/tags"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/testutils"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/transform"
)

type fakeTokenClient struct {
	mu     sync.Mutex
	inputs []*drop.UpdateTokenInput
}

func (f *fakeTokenClient) UpdateToken(_ context.Context, input *drop.UpdateTokenInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	return nil
}

func (f *fakeTokenClient) calls() []*drop.UpdateTokenInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*drop.UpdateTokenInput(nil), f.inputs...)
}

type DropTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	client      *compendiummock.MockClient
	router      *drop.Router
	tokenClient *fakeTokenClient

	tagStore         tags.Repository
	effectStore      effects.Repository
	featureStore     features.Repository
	spellStore       spells.Repository
	equipmentStore   equipment.Repository
	progressionStore progression.Repository
	rosterStore      roster.Repository

	ctx context.Context
}

func (s *DropTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.client = compendiummock.NewMockClient(s.ctrl)
	s.ctx = context.Background()

	registry := transform.NewRegistry()
	schemas, err := schema.NewValidator()
	s.Require().NoError(err)

	hydrator, err := drop.NewHydrator(&drop.HydratorConfig{
		Client:          s.client,
		Registry:        registry,
		PreferredBookID: testutils.TestBookID,
	})
	s.Require().NoError(err)

	s.tagStore = s.newTags()
	s.effectStore = s.newEffects()
	s.featureStore = s.newFeatures()
	s.spellStore = s.newSpells()
	s.equipmentStore = s.newEquipment()
	s.progressionStore = s.newProgression()
	s.rosterStore = s.newRoster()

	handlers, err := drop.NewHandlers(&drop.HandlerConfig{
		Schemas:     schemas,
		Hydrator:    hydrator,
		Tags:        s.tagStore,
		Effects:     s.effectStore,
		Features:    s.featureStore,
		Spells:      s.spellStore,
		Equipment:   s.equipmentStore,
		Progression: s.progressionStore,
		Roster:      s.rosterStore,
	})
	s.Require().NoError(err)

	bus := events.NewBus()
	s.tokenClient = &fakeTokenClient{}
	updater, err := drop.NewTokenUpdater(&drop.TokenUpdaterConfig{
		Client: s.tokenClient,
		Bus:    bus,
	})
	s.Require().NoError(err)

	router, err := drop.NewRouter(&drop.Config{
		Client:       s.client,
		Registry:     registry,
		Handlers:     handlers,
		Bus:          bus,
		TokenUpdater: updater,
	})
	s.Require().NoError(err)
	s.router = router
}

func (s *DropTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *DropTestSuite) newTags() tags.Repository {
	repo, err := tags.NewMemory(&tags.MemoryConfig{IDGenerator: idgen.NewSequential("tag")})
	s.Require().NoError(err)
	return repo
}

func (s *DropTestSuite) newEffects() effects.Repository {
	repo, err := effects.NewMemory(&effects.MemoryConfig{IDGenerator: idgen.NewSequential("fx")})
	s.Require().NoError(err)
	return repo
}

func (s *DropTestSuite) newFeatures() features.Repository {
	repo, err := features.NewMemory(&features.MemoryConfig{IDGenerator: idgen.NewSequential("feat")})
	s.Require().NoError(err)
	return repo
}

func (s *DropTestSuite) newSpells() spells.Repository {
	repo, err := spells.NewMemory(&spells.MemoryConfig{IDGenerator: idgen.NewSequential("sp")})
	s.Require().NoError(err)
	return repo
}

func (s *DropTestSuite) newEquipment() equipment.Repository {
	repo, err := equipment.NewMemory(&equipment.MemoryConfig{IDGenerator: idgen.NewSequential("item")})
	s.Require().NoError(err)
	return repo
}

func (s *DropTestSuite) newProgression() progression.Repository {
	repo, err := progression.NewMemory(&progression.MemoryConfig{IDGenerator: idgen.NewSequential("prog")})
	s.Require().NoError(err)
	return repo
}

func (s *DropTestSuite) newRoster() roster.Repository {
	repo, err := roster.NewMemory(&roster.MemoryConfig{IDGenerator: idgen.NewSequential("npc")})
	s.Require().NoError(err)
	return repo
}

func (s *DropTestSuite) expectPages(category content.Category, name string, pages ...*compendium.Page) {
	s.client.EXPECT().
		GetPages(gomock.Any(), &compendium.GetPagesInput{Category: category, Name: name}).
		Return(&compendium.GetPagesOutput{Pages: pages}, nil)
}

func (s *DropTestSuite) TestDropLegacySpell() {
	page := testutils.LegacySpellPage("Fireball", map[string]any{
		"Level":                  "3",
		"School":                 "Evocation",
		"Damage":                 "8d6",
		"Damage Type":            "Fire",
		"Higher Spell Slot Dice": "1",
	})
	s.expectPages(content.CategorySpell, "Fireball", page)

	out, err := s.router.Drop(s.ctx, &drop.DropInput{
		Category:          content.CategorySpell,
		ItemName:          "Fireball",
		BookItemID:        testutils.TestBookID,
		TargetCharacterID: "char_1",
	})
	s.Require().NoError(err)
	s.Require().True(out.Committed)

	committed, ok := out.Entity.(*spells.Spell)
	s.Require().True(ok)
	s.Equal("Fireball", committed.Name)
	s.Equal(3, committed.Level)
	s.Equal("spell", committed.GetType())

	listed, err := s.spellStore.ListSpellsByCharacter(s.ctx, spells.ListByCharacterInput{CharacterID: "char_1"})
	s.Require().NoError(err)
	s.Len(listed.Spells, 1)
}

func (s *DropTestSuite) TestDropAbortsWhenNoBookMatches() {
	page := testutils.LegacySpellPage("Fireball", map[string]any{"Level": "3"})
	page.Book.ItemID = "book-other"
	s.expectPages(content.CategorySpell, "Fireball", page)

	out, err := s.router.Drop(s.ctx, &drop.DropInput{
		Category:          content.CategorySpell,
		ItemName:          "Fireball",
		BookItemID:        testutils.TestBookID,
		TargetCharacterID: "char_1",
	})
	s.Require().NoError(err)
	s.False(out.Committed)

	listed, err := s.spellStore.ListSpellsByCharacter(s.ctx, spells.ListByCharacterInput{CharacterID: "char_1"})
	s.Require().NoError(err)
	s.Empty(listed.Spells)
}

func (s *DropTestSuite) TestDropEmptyPageSetIsHardError() {
	s.expectPages(content.CategorySpell, "Fireball")

	_, err := s.router.Drop(s.ctx, &drop.DropInput{
		Category:          content.CategorySpell,
		ItemName:          "Fireball",
		BookItemID:        testutils.TestBookID,
		TargetCharacterID: "char_1",
	})
	s.Require().Error(err)
}

func (s *DropTestSuite) TestDropSchemaRejectionCommitsNothing() {
	page := testutils.LegacySpellPage("Broken", nil)
	page.Properties[compendium.PropertyPayload] = `{"name":"","level":3}`
	s.expectPages(content.CategorySpell, "Broken", page)

	out, err := s.router.Drop(s.ctx, &drop.DropInput{
		Category:          content.CategorySpell,
		ItemName:          "Broken",
		BookItemID:        testutils.TestBookID,
		TargetCharacterID: "char_1",
	})
	s.Require().NoError(err)
	s.False(out.Committed)

	listed, err := s.spellStore.ListSpellsByCharacter(s.ctx, spells.ListByCharacterInput{CharacterID: "char_1"})
	s.Require().NoError(err)
	s.Empty(listed.Spells)
	groups, err := s.tagStore.ListByCharacter(s.ctx, tags.ListByCharacterInput{CharacterID: "char_1"})
	s.Require().NoError(err)
	s.Empty(groups.TagGroups)
}

func (s *DropTestSuite) TestDropSpellResolvesPickerAgainstTargetSources() {
	for _, name := range []string{"Spellcasting", "Innate"} {
		_, err := s.spellStore.CreateSource(s.ctx, spells.CreateSourceInput{
			CharacterID: "npc_1",
			Source:      content.SpellSource{Name: name},
		})
		s.Require().NoError(err)
	}
	existing, err := s.spellStore.ListSourcesByCharacter(s.ctx, spells.ListByCharacterInput{CharacterID: "npc_1"})
	s.Require().NoError(err)
	s.Require().Len(existing.Sources, 2)

	page := testutils.LegacySpellPage("Misty Step", nil)
	page.Properties[compendium.PropertyPayload] = `{
		"name": "Misty Step",
		"level": 2,
		"data-spells": [{"name": "Blur", "level": 2, "spellSourceId": "$picker:1"}]
	}`
	s.expectPages(content.CategorySpell, "Misty Step", page)
	// Channel stub hydration misses softly
	s.expectPages(content.CategorySpell, "Blur")

	out, err := s.router.Drop(s.ctx, &drop.DropInput{
		Category:          content.CategorySpell,
		ItemName:          "Misty Step",
		BookItemID:        testutils.TestBookID,
		TargetCharacterID: "npc_1",
	})
	s.Require().NoError(err)
	s.Require().True(out.Committed)

	listed, err := s.spellStore.ListSpellsByCharacter(s.ctx, spells.ListByCharacterInput{CharacterID: "npc_1"})
	s.Require().NoError(err)
	s.Require().Len(listed.Spells, 2)

	byName := make(map[string]*spells.Spell)
	for _, spell := range listed.Spells {
		byName[spell.Name] = spell
	}
	// $picker:1 resolves to the second committed source
	s.Equal(existing.Sources[1].ID, byName["Blur"].SpellSourceID.ID())
	// The dropped spell itself attaches to the first source
	s.Equal(existing.Sources[0].ID, byName["Misty Step"].SpellSourceID.ID())
}

func (s *DropTestSuite) TestDropClassCommitsProgression() {
	page := testutils.LegacySpellPage("Wizard", map[string]any{
		"Hit Die":            "D6",
		"data-Saving Throws": "Intelligence, Wisdom",
	})
	page.Book.Name = testutils.TestBookName
	s.expectPages(content.CategoryClass, "Wizard", page)

	out, err := s.router.Drop(s.ctx, &drop.DropInput{
		Category:          content.CategoryClass,
		ItemName:          "Wizard",
		BookItemID:        testutils.TestBookID,
		TargetCharacterID: "char_1",
	})
	s.Require().NoError(err)
	s.Require().True(out.Committed)

	entry, ok := out.Entity.(*progression.Entry)
	s.Require().True(ok)
	s.Equal("Wizard", entry.Name)
	s.Equal("d6", entry.HitDie)
	s.Equal(content.CategoryClass, entry.Category)
	s.NotEmpty(entry.FeatureIDs)

	listed, err := s.featureStore.ListByCharacter(s.ctx, features.ListByCharacterInput{CharacterID: "char_1"})
	s.Require().NoError(err)
	s.Len(listed.Features, len(entry.FeatureIDs))
}

func (s *DropTestSuite) TestDropSubclassResolvesContainerSpellRefs() {
	page := testutils.LegacySpellPage("The Fiend", nil)
	page.Properties[compendium.PropertyPayload] = `{
		"name": "The Fiend",
		"class": "Warlock",
		"data-spellSource": [{"name": "Pact Magic"}],
		"data-effects": {
			"label": "Expanded Spells",
			"enabled": true,
			"spells": [{"name": "Eldritch Blast", "spellSourceId": "$source:0"}]
		}
	}`
	s.expectPages(content.CategorySubclass, "The Fiend", page)

	out, err := s.router.Drop(s.ctx, &drop.DropInput{
		Category:          content.CategorySubclass,
		ItemName:          "The Fiend",
		BookItemID:        testutils.TestBookID,
		TargetCharacterID: "char_1",
	})
	s.Require().NoError(err)
	s.Require().True(out.Committed)
	s.Require().Len(out.SpellSourceIDs, 1)
	s.Require().NotEmpty(out.EffectContainerID)

	container, err := s.effectStore.Get(s.ctx, effects.GetInput{ID: out.EffectContainerID})
	s.Require().NoError(err)
	s.Require().Len(container.Container.Spells, 1)
	ref := container.Container.Spells[0].SpellSourceID
	s.False(ref.IsPending())
	s.Equal(out.SpellSourceIDs[0], ref.ID())
}

func (s *DropTestSuite) TestDropEquipmentLinksContainerAndTags() {
	page := testutils.LegacySpellPage("Longsword", nil)
	page.Properties[compendium.PropertyPayload] = `{
		"name": "Longsword",
		"type": "Martial Weapon",
		"data-tags": ["weapon", "martial"],
		"data-effects": {
			"label": "Longsword",
			"enabled": true,
			"effects": [{"attribute": "attack-count", "operation": "add", "value": 1}]
		}
	}`
	s.expectPages(content.CategoryEquipment, "Longsword", page)

	out, err := s.router.Drop(s.ctx, &drop.DropInput{
		Category:          content.CategoryEquipment,
		ItemName:          "Longsword",
		BookItemID:        testutils.TestBookID,
		TargetCharacterID: "char_1",
	})
	s.Require().NoError(err)
	s.Require().True(out.Committed)

	item, ok := out.Entity.(*equipment.Item)
	s.Require().True(ok)
	s.Equal("Longsword", item.Payload.Name)
	s.Require().NotEmpty(item.EffectContainerID)
	s.Require().NotEmpty(item.TagGroupID)

	container, err := s.effectStore.Get(s.ctx, effects.GetInput{ID: item.EffectContainerID})
	s.Require().NoError(err)
	s.Len(container.Container.Effects, 1)

	group, err := s.tagStore.Get(s.ctx, tags.GetInput{ID: item.TagGroupID})
	s.Require().NoError(err)
	s.Equal(content.CategoryEquipment, group.TagGroup.Category)
	s.Equal([]string{"weapon", "martial"}, group.TagGroup.Tags)
}

func (s *DropTestSuite) TestDropMonsterNewSheetSchedulesTokenTask() {
	page := testutils.LegacySpellPage("Mage", nil)
	page.Properties[compendium.PropertyPayload] = `{
		"name": "Mage",
		"armorClass": 12,
		"hitPoints": 40,
		"spellcasting": {
			"ability": "Intelligence",
			"saveDc": "14",
			"spells": [{"name": "Fire Bolt"}]
		},
		"innateSpells": [
			{"frequency": "At Will", "spells": [{"name": "Detect Magic"}]}
		],
		"data-effects": {
			"label": "Mage Armor",
			"enabled": true,
			"spells": [{"name": "Shield", "spellSourceId": "$source:0"}]
		}
	}`
	s.expectPages(content.CategoryMonster, "Mage", page)
	// Spell list hydration lookups miss softly
	s.client.EXPECT().
		GetPages(gomock.Any(), gomock.Any()).
		Return(&compendium.GetPagesOutput{}, nil).
		AnyTimes()

	out, err := s.router.Drop(s.ctx, &drop.DropInput{
		Category:   content.CategoryMonster,
		ItemName:   "Mage",
		BookItemID: testutils.TestBookID,
		SessionID:  "session_1",
		IsNewSheet: true,
	})
	s.Require().NoError(err)
	s.Require().True(out.Committed)

	entry, ok := out.Entity.(*roster.Entry)
	s.Require().True(ok)
	s.True(entry.Replace)
	s.Require().Len(out.SpellSourceIDs, 2)

	// The spellcasting list points at the first source, the innate group at
	// the second
	s.Require().NotNil(entry.Monster.Spellcasting)
	s.Equal(out.SpellSourceIDs[0], entry.Monster.Spellcasting.Spells[0].SpellSourceID.ID())
	s.Require().Len(entry.Monster.InnateSpells, 1)
	s.Equal(out.SpellSourceIDs[1], entry.Monster.InnateSpells[0].Spells[0].SpellSourceID.ID())

	// The side-channel container commits with its references resolved
	s.Require().NotEmpty(entry.EffectContainerID)
	container, err := s.effectStore.Get(s.ctx, effects.GetInput{ID: entry.EffectContainerID})
	s.Require().NoError(err)
	s.Require().Len(container.Container.Spells, 1)
	s.Equal(out.SpellSourceIDs[0], container.Container.Spells[0].SpellSourceID.ID())

	s.Require().NotNil(out.TokenTask)
	s.Require().NoError(out.TokenTask.Await())
	calls := s.tokenClient.calls()
	s.Require().Len(calls, 1)
	s.Equal(entry.ID, calls[0].EntryID)
	s.Equal("session_1", calls[0].SessionID)
}

func (s *DropTestSuite) TestDropMonsterCompanionKeepsToken() {
	page := testutils.LegacySpellPage("Wolf", nil)
	page.Properties[compendium.PropertyPayload] = `{"name": "Wolf", "armorClass": 13, "hitPoints": 11}`
	s.expectPages(content.CategoryMonster, "Wolf", page)

	out, err := s.router.Drop(s.ctx, &drop.DropInput{
		Category:          content.CategoryMonster,
		ItemName:          "Wolf",
		BookItemID:        testutils.TestBookID,
		SessionID:         "session_1",
		TargetCharacterID: "char_1",
	})
	s.Require().NoError(err)
	s.Require().True(out.Committed)

	entry, ok := out.Entity.(*roster.Entry)
	s.Require().True(ok)
	s.False(entry.Replace)
	s.Equal("char_1", entry.TargetCharacterID)

	s.Nil(out.TokenTask)
	s.Empty(s.tokenClient.calls())
}

func TestDropTestSuite(t *testing.T) {
	suite.Run(t, new(DropTestSuite))
}
