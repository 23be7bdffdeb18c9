package roster

import (
	"context"
	"sync"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/clock"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/idgen"
)

// MemoryConfig contains configuration for the in-memory roster store
type MemoryConfig struct {
	IDGenerator idgen.Generator
	// Clock defaults to the system clock
	Clock clock.Clock
}

// Validate validates the MemoryConfig and sets defaults if not provided
func (cfg *MemoryConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.IDGenerator == nil {
		return errors.InvalidArgument("id generator cannot be nil")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return nil
}

type memoryRepository struct {
	mu        sync.RWMutex
	generator idgen.Generator
	clock     clock.Clock
	entries   map[string]*Entry
	bySession map[string][]string
}

// NewMemory creates a new in-memory roster store
func NewMemory(cfg *MemoryConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &memoryRepository{
		generator: cfg.IDGenerator,
		clock:     cfg.Clock,
		entries:   make(map[string]*Entry),
		bySession: make(map[string][]string),
	}, nil
}

func (r *memoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument("entry name cannot be empty")
	}

	entry := &Entry{
		ID:                r.generator.Generate(),
		SessionID:         input.SessionID,
		Name:              input.Name,
		Monster:           input.Monster,
		Replace:           input.Replace,
		TargetCharacterID: input.TargetCharacterID,
		TagGroupID:        input.TagGroupID,
		EffectContainerID: input.EffectContainerID,
		SpellSourceIDs:    append([]string(nil), input.SpellSourceIDs...),
		CreatedAt:         r.clock.Now().Unix(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	r.bySession[entry.SessionID] = append(r.bySession[entry.SessionID], entry.ID)

	return &CreateOutput{Entry: entry}, nil
}

func (r *memoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("entry ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[input.ID]
	if !ok || (input.SessionID != "" && entry.SessionID != input.SessionID) {
		return nil, errors.NotFoundf("roster entry %s not found", input.ID)
	}
	return &GetOutput{Entry: entry}, nil
}

func (r *memoryRepository) ListBySession(_ context.Context, input ListBySessionInput) (*ListBySessionOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.bySession[input.SessionID]
	entries := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		if entry, ok := r.entries[id]; ok {
			entries = append(entries, entry)
		}
	}
	return &ListBySessionOutput{Entries: entries}, nil
}

func (r *memoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("entry ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[input.ID]
	if !ok || (input.SessionID != "" && entry.SessionID != input.SessionID) {
		return nil, errors.NotFoundf("roster entry %s not found", input.ID)
	}
	delete(r.entries, input.ID)

	ids := r.bySession[entry.SessionID]
	for i, id := range ids {
		if id == input.ID {
			r.bySession[entry.SessionID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return &DeleteOutput{}, nil
}
