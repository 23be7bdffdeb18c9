package equipment

import (
	"context"
	"sync"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/idgen"
)

// MemoryConfig contains configuration for the in-memory item store
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
	items       map[string]*Item
	byCharacter map[string][]string
}

// NewMemory creates a new in-memory item store
func NewMemory(cfg *MemoryConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &memoryRepository{
		generator:   cfg.IDGenerator,
		items:       make(map[string]*Item),
		byCharacter: make(map[string][]string),
	}, nil
}

func (r *memoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}
	if input.Payload.Name == "" {
		return nil, errors.InvalidArgument("item name cannot be empty")
	}

	item := &Item{
		ID:                r.generator.Generate(),
		CharacterID:       input.CharacterID,
		Payload:           input.Payload,
		EffectContainerID: input.EffectContainerID,
		TagGroupID:        input.TagGroupID,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	r.byCharacter[item.CharacterID] = append(r.byCharacter[item.CharacterID], item.ID)

	return &CreateOutput{Item: item}, nil
}

func (r *memoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("item ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[input.ID]
	if !ok {
		return nil, errors.NotFoundf("item %s not found", input.ID)
	}
	return &GetOutput{Item: item}, nil
}

func (r *memoryRepository) ListByCharacter(_ context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byCharacter[input.CharacterID]
	items := make([]*Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			items = append(items, item)
		}
	}
	return &ListByCharacterOutput{Items: items}, nil
}
