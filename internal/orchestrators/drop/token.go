package drop

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/roster"
)

// TokenClient updates the table token representing a roster entry
type TokenClient interface {
	UpdateToken(ctx context.Context, input *UpdateTokenInput) error
}

// UpdateTokenInput defines one token-image update
type UpdateTokenInput struct {
	SessionID string
	EntryID   string
	Name      string
	ImageName string
}

// TokenUpdaterConfig contains configuration for the token updater
type TokenUpdaterConfig struct {
	Client TokenClient
	Bus    events.EventBus
}

// Validate validates the TokenUpdaterConfig
func (cfg *TokenUpdaterConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("token client cannot be nil")
	}
	if cfg.Bus == nil {
		return errors.InvalidArgument("event bus cannot be nil")
	}
	return nil
}

// TokenUpdater listens for committed monster drops and updates the dropped
// token's image to the monster's. The update runs as a detached task after
// the commit signal rather than on a fixed delay; the router hands the task
// to the caller so it can be awaited.
type TokenUpdater struct {
	client TokenClient

	mu        sync.Mutex
	scheduled map[string]*Task
}

// NewTokenUpdater creates a token updater subscribed to monster commits
func NewTokenUpdater(cfg *TokenUpdaterConfig) (*TokenUpdater, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	updater := &TokenUpdater{
		client:    cfg.Client,
		scheduled: make(map[string]*Task),
	}
	cfg.Bus.SubscribeFunc(monsterCommittedEvent, 0, updater.handleCommitted)
	return updater, nil
}

var monsterCommittedEvent = CommittedEventType(content.CategoryMonster)

func (t *TokenUpdater) handleCommitted(ctx context.Context, event events.Event) error {
	entry, ok := event.Source().(*roster.Entry)
	if !ok {
		return nil
	}
	if newSheet, ok := event.Context().Get(ContextKeyNewSheet); !ok || newSheet != true {
		// Companion drops keep the token the user dragged
		return nil
	}

	// The task outlives the drop that scheduled it
	taskCtx := context.WithoutCancel(ctx)
	task := newTask(func() error {
		err := t.client.UpdateToken(taskCtx, &UpdateTokenInput{
			SessionID: entry.SessionID,
			EntryID:   entry.ID,
			Name:      entry.Name,
			ImageName: entry.Name,
		})
		if err != nil {
			slog.Warn("Token update failed", "entry_id", entry.ID, "error", err)
		}
		return err
	})

	t.mu.Lock()
	t.scheduled[entry.ID] = task
	t.mu.Unlock()
	return nil
}

// TakeScheduled returns the task scheduled for one roster entry and clears
// it. Tasks are keyed by entry id so concurrent drops through the same
// router each take their own.
func (t *TokenUpdater) TakeScheduled(entryID string) *Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	task := t.scheduled[entryID]
	delete(t.scheduled, entryID)
	return task
}
