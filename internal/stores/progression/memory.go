package progression

import (
	"context"
	"sync"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/idgen"
)

// MemoryConfig contains configuration for the in-memory progression store
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
	mu          sync.RWMutex
	generator   idgen.Generator
	entries     map[string]*Entry
	byCharacter map[string][]string
}

// NewMemory creates a new in-memory progression store
func NewMemory(cfg *MemoryConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &memoryRepository{
		generator:   cfg.IDGenerator,
		entries:     make(map[string]*Entry),
		byCharacter: make(map[string][]string),
	}, nil
}

func (r *memoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}
	if input.Category == "" {
		return nil, errors.InvalidArgument("category cannot be empty")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument("name cannot be empty")
	}

	entry := &Entry{
		ID:                r.generator.Generate(),
		CharacterID:       input.CharacterID,
		Category:          input.Category,
		Name:              input.Name,
		HitDie:            input.HitDie,
		Size:              input.Size,
		ParentClass:       input.ParentClass,
		Description:       input.Description,
		TagGroupID:        input.TagGroupID,
		EffectContainerID: input.EffectContainerID,
		FeatureIDs:        append([]string(nil), input.FeatureIDs...),
		SpellSourceIDs:    append([]string(nil), input.SpellSourceIDs...),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	r.byCharacter[entry.CharacterID] = append(r.byCharacter[entry.CharacterID], entry.ID)

	return &CreateOutput{Entry: entry}, nil
}

func (r *memoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("entry ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[input.ID]
	if !ok {
		return nil, errors.NotFoundf("progression entry %s not found", input.ID)
	}
	return &GetOutput{Entry: entry}, nil
}

func (r *memoryRepository) ListByCharacter(_ context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byCharacter[input.CharacterID]
	entries := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		if entry, ok := r.entries[id]; ok {
			entries = append(entries, entry)
		}
	}
	return &ListByCharacterOutput{Entries: entries}, nil
}
