package spells

import (
	"context"
	"sync"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/idgen"
)

// MemoryConfig contains configuration for the in-memory spell store
type MemoryConfig struct {
	IDGenerator idgen.Generator
}

// Validate validates the MemoryConfig
func (cfg *MemoryConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.IDGenerator == nil {
		return errors.InvalidArgument("id generator cannot be nil")
	}
	return nil
}

type memoryRepository struct {
	mu             sync.RWMutex
	generator      idgen.Generator
	spells         map[string]*Spell
	sources        map[string]*Source
	spellsByOwner  map[string][]string
	sourcesByOwner map[string][]string
}

// NewMemory creates a new in-memory spell store
func NewMemory(cfg *MemoryConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &memoryRepository{
		generator:      cfg.IDGenerator,
		spells:         make(map[string]*Spell),
		sources:        make(map[string]*Source),
		spellsByOwner:  make(map[string][]string),
		sourcesByOwner: make(map[string][]string),
	}, nil
}

func (r *memoryRepository) CreateSource(_ context.Context, input CreateSourceInput) (*CreateSourceOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}
	if input.Source.Name == "" {
		return nil, errors.InvalidArgument("source name cannot be empty")
	}

	source := &Source{
		CharacterID: input.CharacterID,
		SpellSource: input.Source,
	}
	source.SpellSource.ID = r.generator.Generate()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source.ID] = source
	r.sourcesByOwner[source.CharacterID] = append(r.sourcesByOwner[source.CharacterID], source.ID)

	return &CreateSourceOutput{Source: source}, nil
}

func (r *memoryRepository) CreateSpell(_ context.Context, input CreateSpellInput) (*CreateSpellOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}
	if input.Spell.Name == "" {
		return nil, errors.InvalidArgument("spell name cannot be empty")
	}
	if input.Spell.SpellSourceID.IsPending() {
		return nil, errors.FailedPrecondition("spell source reference is unresolved")
	}

	spell := &Spell{
		CharacterID: input.CharacterID,
		TagGroupID:  input.TagGroupID,
		Spell:       input.Spell,
	}
	spell.Spell.ID = r.generator.Generate()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.spells[spell.ID] = spell
	r.spellsByOwner[spell.CharacterID] = append(r.spellsByOwner[spell.CharacterID], spell.ID)

	return &CreateSpellOutput{Spell: spell}, nil
}

func (r *memoryRepository) GetSpell(_ context.Context, input GetSpellInput) (*GetSpellOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("spell ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	spell, ok := r.spells[input.ID]
	if !ok {
		return nil, errors.NotFoundf("spell %s not found", input.ID)
	}
	return &GetSpellOutput{Spell: spell}, nil
}

func (r *memoryRepository) ListSourcesByCharacter(_ context.Context, input ListByCharacterInput) (*ListSourcesOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.sourcesByOwner[input.CharacterID]
	sources := make([]*Source, 0, len(ids))
	for _, id := range ids {
		if source, ok := r.sources[id]; ok {
			sources = append(sources, source)
		}
	}
	return &ListSourcesOutput{Sources: sources}, nil
}

func (r *memoryRepository) ListSpellsByCharacter(_ context.Context, input ListByCharacterInput) (*ListSpellsOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.spellsByOwner[input.CharacterID]
	spells := make([]*Spell, 0, len(ids))
	for _, id := range ids {
		if spell, ok := r.spells[id]; ok {
			spells = append(spells, spell)
		}
	}
	return &ListSpellsOutput{Spells: spells}, nil
}
