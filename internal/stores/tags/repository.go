// Package tags provides the interface for tag group persistence
package tags

//go:generate mockgen -destination=mock/mock_repository.go -package=tagsmock github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/tags Repository

import (
	"context"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// EntityType is the core.Entity type string for tag groups
const EntityType = "tag-group"

// TagGroup is one committed, category-scoped set of tags
type TagGroup struct {
	ID          string           `json:"id"`
	CharacterID string           `json:"characterId"`
	Category    content.Category `json:"category"`
	Tags        []string         `json:"tags"`
}

// GetID implements core.Entity
func (g *TagGroup) GetID() string { return g.ID }

// GetType implements core.Entity
func (g *TagGroup) GetType() string { return EntityType }

// Repository defines the interface for tag group persistence
type Repository interface {
	// Create commits a new tag group, minting its id
	// Returns errors.InvalidArgument for validation failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a tag group by ID
	// Returns errors.NotFound if the group doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListByCharacter retrieves every tag group owned by a character
	ListByCharacter(ctx context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error)
}

// CreateInput defines the input for committing a tag group
type CreateInput struct {
	CharacterID string
	Category    content.Category
	Tags        []string
}

// CreateOutput defines the output for committing a tag group
type CreateOutput struct {
	TagGroup *TagGroup
}

// GetInput defines the input for getting a tag group
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a tag group
type GetOutput struct {
	TagGroup *TagGroup
}

// ListByCharacterInput defines the input for listing a character's tag groups
type ListByCharacterInput struct {
	CharacterID string
}

// ListByCharacterOutput defines the output for listing a character's tag groups
type ListByCharacterOutput struct {
	TagGroups []*TagGroup
}
