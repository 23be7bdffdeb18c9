package drop

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/transform"
)

// Config contains the dependencies for the drop router
type Config struct {
	Client   compendium.Client
	Registry *transform.Registry
	Handlers map[content.Category]Handler
	Bus      events.EventBus
	// TokenUpdater hands back the token task scheduled by a monster commit
	// (optional)
	TokenUpdater *TokenUpdater
}

// Validate validates the Config
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.Registry == nil {
		return errors.InvalidArgument("registry cannot be nil")
	}
	if len(cfg.Handlers) == 0 {
		return errors.InvalidArgument("handler table cannot be empty")
	}
	if cfg.Bus == nil {
		return errors.InvalidArgument("event bus cannot be nil")
	}
	return nil
}

// Router runs one drop end to end: fetch, select, normalize, extract,
// dispatch. Only the fetch step surfaces an error to the caller; every
// later failure is logged and swallowed so the surrounding surface never
// crashes on bad content.
type Router struct {
	client       compendium.Client
	registry     *transform.Registry
	handlers     map[content.Category]Handler
	bus          events.EventBus
	tokenUpdater *TokenUpdater
}

// NewRouter creates a new drop router
func NewRouter(cfg *Config) (*Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Router{
		client:       cfg.Client,
		registry:     cfg.Registry,
		handlers:     cfg.Handlers,
		bus:          cfg.Bus,
		tokenUpdater: cfg.TokenUpdater,
	}, nil
}

// Drop executes one user-initiated drop
func (r *Router) Drop(ctx context.Context, input *DropInput) (*DropOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("category", string(input.Category), vb)
	errors.ValidateRequired("itemName", input.ItemName, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	pages, err := r.client.GetPages(ctx, &compendium.GetPagesInput{
		Category: input.Category,
		Name:     input.ItemName,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch pages for %q", input.ItemName)
	}
	if len(pages.Pages) == 0 {
		return nil, errors.NotFoundf("no compendium pages for %q", input.ItemName)
	}

	page := compendium.SelectPage(pages.Pages, input.BookItemID)
	if page == nil {
		slog.Warn("No page matches requested book",
			"item", input.ItemName,
			"book_item_id", input.BookItemID)
		return &DropOutput{}, nil
	}

	payload, err := r.normalize(input.Category, page)
	if err != nil {
		slog.Warn("Page does not normalize",
			"item", input.ItemName,
			"category", input.Category,
			"error", err)
		return &DropOutput{}, nil
	}
	channels := payload.SideChannels().Extract()

	handler, ok := r.handlers[input.Category]
	if !ok {
		slog.Warn("No handler for category", "category", input.Category)
		return &DropOutput{}, nil
	}

	result, err := handler.Handle(ctx, &Request{
		Input:    input,
		Page:     page,
		Payload:  payload,
		Channels: channels,
	})
	if err != nil {
		slog.Error("Drop rejected",
			"item", input.ItemName,
			"category", input.Category,
			"error", err)
		return &DropOutput{}, nil
	}

	output := &DropOutput{
		Committed:         true,
		Entity:            result.Entity,
		TagGroupID:        result.TagGroupID,
		EffectContainerID: result.EffectContainerID,
		SpellSourceIDs:    result.SpellSourceIDs,
	}

	event := events.NewGameEvent(CommittedEventType(input.Category), result.Entity, nil)
	event.Context().Set(ContextKeyNewSheet, input.IsNewSheet)
	if err := r.bus.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish commit event",
			"event", CommittedEventType(input.Category),
			"error", err)
	}
	if r.tokenUpdater != nil && result.Entity != nil {
		output.TokenTask = r.tokenUpdater.TakeScheduled(result.Entity.GetID())
	}

	return output, nil
}

// normalize prefers the page's pre-baked native payload over running the
// category transformer
func (r *Router) normalize(category content.Category, page *compendium.Page) (content.Payload, error) {
	if raw := page.Properties.String(compendium.PropertyPayload); raw != "" {
		return transform.DecodeNativePayload(category, raw)
	}
	return r.registry.Transform(category, page)
}
