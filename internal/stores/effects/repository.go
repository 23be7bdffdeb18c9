// Package effects provides the interface for effect container persistence
package effects

//go:generate mockgen -destination=mock/mock_repository.go -package=effectsmock github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/effects Repository

import (
	"context"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// EntityType is the core.Entity type string for effect containers
const EntityType = "effect-container"

// Container is one committed effect container owned by a character
type Container struct {
	CharacterID string `json:"characterId"`
	content.EffectContainer
}

// GetID implements core.Entity
func (c *Container) GetID() string { return c.ID }

// GetType implements core.Entity
func (c *Container) GetType() string { return EntityType }

// Repository defines the interface for effect container persistence
type Repository interface {
	// Create commits a container, minting its id
	// Returns errors.InvalidArgument for validation failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a container by ID
	// Returns errors.NotFound if the container doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces a committed container
	// Returns errors.NotFound if the container doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// ListByCharacter retrieves every container owned by a character
	ListByCharacter(ctx context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error)
}

// CreateInput defines the input for committing a container
type CreateInput struct {
	CharacterID string
	Container   content.EffectContainer
}

// CreateOutput defines the output for committing a container
type CreateOutput struct {
	Container *Container
}

// GetInput defines the input for getting a container
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a container
type GetOutput struct {
	Container *Container
}

// UpdateInput defines the input for updating a container
type UpdateInput struct {
	Container *Container
}

// UpdateOutput defines the output for updating a container
type UpdateOutput struct {
	Container *Container
}

// ListByCharacterInput defines the input for listing a character's containers
type ListByCharacterInput struct {
	CharacterID string
}

// ListByCharacterOutput defines the output for listing a character's containers
type ListByCharacterOutput struct {
	Containers []*Container
}
