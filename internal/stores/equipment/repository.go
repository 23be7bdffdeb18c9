// Package equipment provides the interface for committed item persistence
package equipment

//go:generate mockgen -destination=mock/mock_repository.go -package=equipmentmock github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/equipment Repository

import (
	"context"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// EntityType is the core.Entity type string for items
const EntityType = "item"

// Item is one committed piece of equipment owned by a character. The effect
// container and tag group it references are committed first and linked here
// by id.
type Item struct {
	ID                string                   `json:"id"`
	CharacterID       string                   `json:"characterId"`
	Payload           content.EquipmentPayload `json:"payload"`
	EffectContainerID string                   `json:"effectContainerId,omitempty"`
	TagGroupID        string                   `json:"tagGroupId,omitempty"`
}

// GetID implements core.Entity
func (i *Item) GetID() string { return i.ID }

// GetType implements core.Entity
func (i *Item) GetType() string { return EntityType }

// Repository defines the interface for item persistence
type Repository interface {
	// Create commits an item, minting its id
	// Returns errors.InvalidArgument for validation failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves an item by ID
	// Returns errors.NotFound if the item doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListByCharacter retrieves every item owned by a character
	ListByCharacter(ctx context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error)
}

// CreateInput defines the input for committing an item
type CreateInput struct {
	CharacterID       string
	Payload           content.EquipmentPayload
	EffectContainerID string
	TagGroupID        string
}

// CreateOutput defines the output for committing an item
type CreateOutput struct {
	Item *Item
}

// GetInput defines the input for getting an item
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting an item
type GetOutput struct {
	Item *Item
}

// ListByCharacterInput defines the input for listing a character's items
type ListByCharacterInput struct {
	CharacterID string
}

// ListByCharacterOutput defines the output for listing a character's items
type ListByCharacterOutput struct {
	Items []*Item
}
