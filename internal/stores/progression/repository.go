// Package progression provides the interface for class, subclass, race, and
// background progression persistence
package progression

//go:generate mockgen -destination=mock/mock_repository.go -package=progressionmock github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/progression Repository

import (
	"context"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// EntityType is the core.Entity type string for progression entries
const EntityType = "progression"

// Entry records one committed progression source on a character: the class,
// subclass, race, or background a drop instantiated, linked to the ids minted
// alongside it.
type Entry struct {
	ID          string           `json:"id"`
	CharacterID string           `json:"characterId"`
	Category    content.Category `json:"category"`
	Name        string           `json:"name"`
	HitDie      string           `json:"hitDie,omitempty"`
	Size        string           `json:"size,omitempty"`
	ParentClass string           `json:"class,omitempty"`
	Description string           `json:"description,omitempty"`

	TagGroupID        string   `json:"tagGroupId,omitempty"`
	EffectContainerID string   `json:"effectContainerId,omitempty"`
	FeatureIDs        []string `json:"featureIds,omitempty"`
	SpellSourceIDs    []string `json:"spellSourceIds,omitempty"`
}

// GetID implements core.Entity
func (e *Entry) GetID() string { return e.ID }

// GetType implements core.Entity
func (e *Entry) GetType() string { return EntityType }

// Repository defines the interface for progression persistence
type Repository interface {
	// Create commits a progression entry, minting its id
	// Returns errors.InvalidArgument for validation failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves an entry by ID
	// Returns errors.NotFound if the entry doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListByCharacter retrieves every entry owned by a character
	ListByCharacter(ctx context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error)
}

// CreateInput defines the input for committing a progression entry
type CreateInput struct {
	CharacterID       string
	Category          content.Category
	Name              string
	HitDie            string
	Size              string
	ParentClass       string
	Description       string
	TagGroupID        string
	EffectContainerID string
	FeatureIDs        []string
	SpellSourceIDs    []string
}

// CreateOutput defines the output for committing a progression entry
type CreateOutput struct {
	Entry *Entry
}

// GetInput defines the input for getting an entry
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting an entry
type GetOutput struct {
	Entry *Entry
}

// ListByCharacterInput defines the input for listing a character's entries
type ListByCharacterInput struct {
	CharacterID string
}

// ListByCharacterOutput defines the output for listing a character's entries
type ListByCharacterOutput struct {
	Entries []*Entry
}
