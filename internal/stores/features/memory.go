package features

import (
	"context"
	"sync"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/idgen"
)

// MemoryConfig contains configuration for the in-memory feature store
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
	features    map[string]*Feature
	byCharacter map[string][]string
}

// NewMemory creates a new in-memory feature store
func NewMemory(cfg *MemoryConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &memoryRepository{
		generator:   cfg.IDGenerator,
		features:    make(map[string]*Feature),
		byCharacter: make(map[string][]string),
	}, nil
}

func (r *memoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}
	if input.Feature.Name == "" {
		return nil, errors.InvalidArgument("feature name cannot be empty")
	}

	feature := &Feature{
		CharacterID: input.CharacterID,
		Level:       input.Level,
		TagGroupID:  input.TagGroupID,
		Feature:     input.Feature,
	}
	feature.ID = r.generator.Generate()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.features[feature.ID] = feature
	r.byCharacter[feature.CharacterID] = append(r.byCharacter[feature.CharacterID], feature.ID)

	return &CreateOutput{Feature: feature}, nil
}

func (r *memoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("feature ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	feature, ok := r.features[input.ID]
	if !ok {
		return nil, errors.NotFoundf("feature %s not found", input.ID)
	}
	return &GetOutput{Feature: feature}, nil
}

func (r *memoryRepository) ListByCharacter(_ context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byCharacter[input.CharacterID]
	features := make([]*Feature, 0, len(ids))
	for _, id := range ids {
		if feature, ok := r.features[id]; ok {
			features = append(features, feature)
		}
	}
	return &ListByCharacterOutput{Features: features}, nil
}
