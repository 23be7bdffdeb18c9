// Package features provides the interface for committed feature persistence
package features

//go:generate mockgen -destination=mock/mock_repository.go -package=featuresmock github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/features Repository

import (
	"context"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// EntityType is the core.Entity type string for features
const EntityType = "feature"

// Feature is one committed trait or class feature owned by a character
type Feature struct {
	CharacterID string `json:"characterId"`
	// Level is the character level the feature was granted at; 0 for flat
	// categories (backgrounds, feats)
	Level      int    `json:"level,omitempty"`
	TagGroupID string `json:"tagGroupId,omitempty"`
	content.Feature
}

// GetID implements core.Entity
func (f *Feature) GetID() string { return f.ID }

// GetType implements core.Entity
func (f *Feature) GetType() string { return EntityType }

// Repository defines the interface for feature persistence
type Repository interface {
	// Create commits a feature, minting its id
	// Returns errors.InvalidArgument for validation failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a feature by ID
	// Returns errors.NotFound if the feature doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListByCharacter retrieves every feature owned by a character, in commit
	// order
	ListByCharacter(ctx context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error)
}

// CreateInput defines the input for committing a feature
type CreateInput struct {
	CharacterID string
	Level       int
	TagGroupID  string
	Feature     content.Feature
}

// CreateOutput defines the output for committing a feature
type CreateOutput struct {
	Feature *Feature
}

// GetInput defines the input for getting a feature
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a feature
type GetOutput struct {
	Feature *Feature
}

// ListByCharacterInput defines the input for listing a character's features
type ListByCharacterInput struct {
	CharacterID string
}

// ListByCharacterOutput defines the output for listing a character's features
type ListByCharacterOutput struct {
	Features []*Feature
}
