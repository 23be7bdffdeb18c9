// Package spells provides the interface for committed spell and spell source
// persistence
package spells

//go:generate mockgen -destination=mock/mock_repository.go -package=spellsmock github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/spells Repository

import (
	"context"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

// Entity type strings
const (
	SpellEntityType  = "spell"
	SourceEntityType = "spell-source"
)

// Spell is one committed spell owned by a character
type Spell struct {
	CharacterID string `json:"characterId"`
	TagGroupID  string `json:"tagGroupId,omitempty"`
	content.Spell
}

// GetID implements core.Entity
func (s *Spell) GetID() string { return s.ID }

// GetType implements core.Entity
func (s *Spell) GetType() string { return SpellEntityType }

// Source is one committed casting origin owned by a character
type Source struct {
	CharacterID string `json:"characterId"`
	content.SpellSource
}

// GetID implements core.Entity
func (s *Source) GetID() string { return s.ID }

// GetType implements core.Entity
func (s *Source) GetType() string { return SourceEntityType }

// Repository defines the interface for spell persistence. Sources keep their
// commit order per character, which is what positional source references
// resolve against.
type Repository interface {
	// CreateSource commits a casting origin, minting its id
	CreateSource(ctx context.Context, input CreateSourceInput) (*CreateSourceOutput, error)

	// CreateSpell commits a spell, minting its id. The spell's source
	// reference must already be resolved.
	// Returns errors.FailedPrecondition when it is still pending
	CreateSpell(ctx context.Context, input CreateSpellInput) (*CreateSpellOutput, error)

	// GetSpell retrieves a spell by ID
	GetSpell(ctx context.Context, input GetSpellInput) (*GetSpellOutput, error)

	// ListSourcesByCharacter retrieves a character's sources in commit order
	ListSourcesByCharacter(ctx context.Context, input ListByCharacterInput) (*ListSourcesOutput, error)

	// ListSpellsByCharacter retrieves a character's spells in commit order
	ListSpellsByCharacter(ctx context.Context, input ListByCharacterInput) (*ListSpellsOutput, error)
}

// CreateSourceInput defines the input for committing a casting origin
type CreateSourceInput struct {
	CharacterID string
	Source      content.SpellSource
}

// CreateSourceOutput defines the output for committing a casting origin
type CreateSourceOutput struct {
	Source *Source
}

// CreateSpellInput defines the input for committing a spell
type CreateSpellInput struct {
	CharacterID string
	TagGroupID  string
	Spell       content.Spell
}

// CreateSpellOutput defines the output for committing a spell
type CreateSpellOutput struct {
	Spell *Spell
}

// GetSpellInput defines the input for getting a spell
type GetSpellInput struct {
	ID string
}

// GetSpellOutput defines the output for getting a spell
type GetSpellOutput struct {
	Spell *Spell
}

// ListByCharacterInput defines the input for per-character listings
type ListByCharacterInput struct {
	CharacterID string
}

// ListSourcesOutput defines the output for listing a character's sources
type ListSourcesOutput struct {
	Sources []*Source
}

// ListSpellsOutput defines the output for listing a character's spells
type ListSpellsOutput struct {
	Spells []*Spell
}
