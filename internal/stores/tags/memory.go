package tags

import (
	"context"
	"sync"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/idgen"
)

// MemoryConfig contains configuration for the in-memory tag group store
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
	groups      map[string]*TagGroup
	byCharacter map[string][]string
}

// NewMemory creates a new in-memory tag group store
func NewMemory(cfg *MemoryConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &memoryRepository{
		generator:   cfg.IDGenerator,
		groups:      make(map[string]*TagGroup),
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

	group := &TagGroup{
		ID:          r.generator.Generate(),
		CharacterID: input.CharacterID,
		Category:    input.Category,
		Tags:        append([]string(nil), input.Tags...),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[group.ID] = group
	r.byCharacter[group.CharacterID] = append(r.byCharacter[group.CharacterID], group.ID)

	return &CreateOutput{TagGroup: group}, nil
}

func (r *memoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("tag group ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	group, ok := r.groups[input.ID]
	if !ok {
		return nil, errors.NotFoundf("tag group %s not found", input.ID)
	}
	return &GetOutput{TagGroup: group}, nil
}

func (r *memoryRepository) ListByCharacter(_ context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byCharacter[input.CharacterID]
	groups := make([]*TagGroup, 0, len(ids))
	for _, id := range ids {
		if group, ok := r.groups[id]; ok {
			groups = append(groups, group)
		}
	}
	return &ListByCharacterOutput{TagGroups: groups}, nil
}
