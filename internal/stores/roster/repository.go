// Package roster provides the interface for NPC roster persistence
package roster

//go:generate mockgen -destination=mock/mock_repository.go -package=rostermock github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/roster Repository

import (
	"context"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// EntityType is the core.Entity type string for roster entries
const EntityType = "roster-entry"

// Entry is one NPC instantiated into a session's roster. Replace marks a
// full-replacement drop (the entry becomes the sheet); otherwise the entry is
// appended as a companion of TargetCharacterID.
type Entry struct {
	ID                string                  `json:"id"`
	SessionID         string                  `json:"sessionId"`
	Name              string                  `json:"name"`
	Monster           *content.MonsterPayload `json:"monster,omitempty"`
	Replace           bool                    `json:"replace,omitempty"`
	TargetCharacterID string                  `json:"targetCharacterId,omitempty"`
	TagGroupID        string                  `json:"tagGroupId,omitempty"`
	EffectContainerID string                  `json:"effectContainerId,omitempty"`
	SpellSourceIDs    []string                `json:"spellSourceIds,omitempty"`
	CreatedAt         int64                   `json:"createdAt,omitempty"`
}

// GetID implements core.Entity
func (e *Entry) GetID() string { return e.ID }

// GetType implements core.Entity
func (e *Entry) GetType() string { return EntityType }

// Repository defines the interface for roster persistence
type Repository interface {
	// Create commits a roster entry, minting its id
	// Returns errors.InvalidArgument for validation failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves an entry by session and ID
	// Returns errors.NotFound if the entry doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListBySession retrieves every entry in a session
	ListBySession(ctx context.Context, input ListBySessionInput) (*ListBySessionOutput, error)

	// Delete removes an entry
	// Returns errors.NotFound if the entry doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// CreateInput defines the input for committing a roster entry
type CreateInput struct {
	SessionID         string
	Name              string
	Monster           *content.MonsterPayload
	Replace           bool
	TargetCharacterID string
	TagGroupID        string
	EffectContainerID string
	SpellSourceIDs    []string
}

// CreateOutput defines the output for committing a roster entry
type CreateOutput struct {
	Entry *Entry
}

// GetInput defines the input for getting an entry
type GetInput struct {
	SessionID string
	ID        string
}

// GetOutput defines the output for getting an entry
type GetOutput struct {
	Entry *Entry
}

// ListBySessionInput defines the input for listing a session's roster
type ListBySessionInput struct {
	SessionID string
}

// ListBySessionOutput defines the output for listing a session's roster
type ListBySessionOutput struct {
	Entries []*Entry
}

// DeleteInput defines the input for deleting an entry
type DeleteInput struct {
	SessionID string
	ID        string
}

// DeleteOutput defines the output for deleting an entry
type DeleteOutput struct{}
