package effects

import (
	"context"
	"sync"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/idgen"
)

// MemoryConfig contains configuration for the in-memory effect container store
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
	containers  map[string]*Container
	byCharacter map[string][]string
}

// NewMemory creates a new in-memory effect container store
func NewMemory(cfg *MemoryConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &memoryRepository{
		generator:   cfg.IDGenerator,
		containers:  make(map[string]*Container),
		byCharacter: make(map[string][]string),
	}, nil
}

func (r *memoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}
	if ref, ok := findPendingRef(input.Container.Spells); ok {
		return nil, errors.FailedPreconditionf("spell source reference %s is unresolved", ref)
	}

	container := &Container{
		CharacterID:     input.CharacterID,
		EffectContainer: input.Container,
	}
	container.ID = r.generator.Generate()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.containers[container.ID] = container
	r.byCharacter[container.CharacterID] = append(r.byCharacter[container.CharacterID], container.ID)

	return &CreateOutput{Container: container}, nil
}

// findPendingRef walks the container's spell tree for an unresolved symbolic
// source reference. Handlers resolve references before committing, so one
// arriving here is a defect upstream.
func findPendingRef(spells []content.Spell) (string, bool) {
	for _, spell := range spells {
		if spell.SpellSourceID.IsPending() {
			return spell.SpellSourceID.String(), true
		}
		if spell.Container != nil {
			if ref, ok := findPendingRef(spell.Container.Spells); ok {
				return ref, true
			}
		}
	}
	return "", false
}

func (r *memoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("container ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	container, ok := r.containers[input.ID]
	if !ok {
		return nil, errors.NotFoundf("effect container %s not found", input.ID)
	}
	return &GetOutput{Container: container}, nil
}

func (r *memoryRepository) Update(_ context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Container == nil {
		return nil, errors.InvalidArgument("container cannot be nil")
	}
	if input.Container.ID == "" {
		return nil, errors.InvalidArgument("container ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.containers[input.Container.ID]; !ok {
		return nil, errors.NotFoundf("effect container %s not found", input.Container.ID)
	}
	r.containers[input.Container.ID] = input.Container
	return &UpdateOutput{Container: input.Container}, nil
}

func (r *memoryRepository) ListByCharacter(_ context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byCharacter[input.CharacterID]
	containers := make([]*Container, 0, len(ids))
	for _, id := range ids {
		if container, ok := r.containers[id]; ok {
			containers = append(containers, container)
		}
	}
	return &ListByCharacterOutput{Containers: containers}, nil
}
