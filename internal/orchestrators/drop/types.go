// Package drop implements the drop pipeline: it fetches a compendium page,
// normalizes it, and routes the payload to a category handler that validates,
// resolves references, and commits the resulting entities.
package drop

import (
	"context"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
)

//go:generate mockgen -destination=mock/mock_handler.go -package=dropmock github.com/Roll20/roll20-beacon-sheets-sub000/internal/orchestrators/drop Handler,TokenClient,TargetLocator

// Point is a screen coordinate carried along with the drop gesture
type Point struct {
	X float64
	Y float64
}

// DropInput defines one user-initiated drop
type DropInput struct {
	Category content.Category
	ItemName string
	// BookItemID selects the edition; the page whose book item id matches it
	// exactly is the one dropped
	BookItemID string
	// SessionID scopes monster drops to a game session's roster
	SessionID string
	// TargetCharacterID names the sheet receiving the content. For monster
	// drops it may be empty, in which case Position resolves the target.
	TargetCharacterID string
	// IsNewSheet selects full-replacement semantics for monster drops
	IsNewSheet bool
	Position   *Point
}

// DropOutput reports what a drop committed. Committed is false when the drop
// aborted softly (no matching page, unknown category, schema rejection); the
// caller sees "nothing happened" rather than an error.
type DropOutput struct {
	Committed         bool
	Entity            core.Entity
	TagGroupID        string
	EffectContainerID string
	SpellSourceIDs    []string
	// TokenTask is the post-commit token update scheduled for new-sheet
	// monster drops; nil otherwise. Await it or leave it detached.
	TokenTask *Task
}

// Request is what the router hands a category handler: the selected page, the
// normalized payload, and the side channels already stripped from it
type Request struct {
	Input    *DropInput
	Page     *compendium.Page
	Payload  content.Payload
	Channels content.Channels
}

// Result is what a handler reports back after committing
type Result struct {
	Entity            core.Entity
	TagGroupID        string
	EffectContainerID string
	SpellSourceIDs    []string
}

// Handler commits one category's payload. Handlers are the only writers of
// the owning stores.
type Handler interface {
	Handle(ctx context.Context, req *Request) (*Result, error)
}

// CommittedEventType is the event type published when a drop commits an
// entity of the given category
func CommittedEventType(category content.Category) string {
	return "compendium." + string(category) + ".committed"
}

// Event context keys
const (
	// ContextKeyNewSheet marks a full-replacement monster drop on the commit
	// event
	ContextKeyNewSheet = "isNewSheet"
)
