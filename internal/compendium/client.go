// Package compendium is the boundary to the external compendium source. It
// defines the page/record wire model, the client interface the pipeline
// consumes, and an HTTP implementation.
package compendium

//go:generate mockgen -destination=mock/mock_client.go -package=compendiummock github.com/Roll20/roll20-beacon-sheets-sub000/internal/compendium Client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
)

// GetPagesInput defines a page-set request
type GetPagesInput struct {
	Category content.Category
	// Name optionally restricts the result to pages matching an item name
	// exactly
	Name string
}

// GetPagesOutput carries the candidate pages for a request
type GetPagesOutput struct {
	Pages []*Page
}

// Client fetches compendium pages
type Client interface {
	// GetPages fetches the candidate pages for a category and optional item
	// name. An empty result is not an error at this layer; callers decide
	// whether that is fatal (direct drop) or soft (hydration).
	GetPages(ctx context.Context, input *GetPagesInput) (*GetPagesOutput, error)
}

// Config contains configuration options for the HTTP client
type Config struct {
	// BaseURL of the compendium service
	BaseURL string
	// HTTPTimeout for page requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
}

// Validate validates the Config and sets defaults if not provided
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		return errors.InvalidArgument("base URL is required")
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	return nil
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a compendium client talking HTTP to the source
func NewClient(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &httpClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.HTTPTimeout},
	}, nil
}

// Ensure httpClient implements Client
var _ Client = (*httpClient)(nil)

// GetPages fetches pages for a category, optionally filtered by item name
func (c *httpClient) GetPages(ctx context.Context, input *GetPagesInput) (*GetPagesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Category == "" {
		return nil, errors.InvalidArgument("category is required")
	}

	endpoint := fmt.Sprintf("%s/compendium/%s", c.baseURL, url.PathEscape(string(input.Category)))
	if input.Name != "" {
		endpoint += "?name=" + url.QueryEscape(input.Name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build page request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "compendium request failed")
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("Failed to close compendium response body", "error", closeErr)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &GetPagesOutput{}, nil
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Unavailablef("compendium returned status %d", resp.StatusCode)
	}

	var pages []*Page
	if err := json.NewDecoder(resp.Body).Decode(&pages); err != nil {
		return nil, errors.Wrap(err, "failed to decode compendium pages")
	}

	return &GetPagesOutput{Pages: pages}, nil
}

// SelectPage picks the page whose book item id matches the requested id
// exactly. No match returns nil; the caller aborts the drop.
func SelectPage(pages []*Page, bookItemID string) *Page {
	for _, page := range pages {
		if page != nil && page.Book.ItemID == bookItemID {
			return page
		}
	}
	return nil
}

// SelectPreferred picks the page matching the preferred book item id,
// falling back to the first page returned. Used by hydration, where a
// near-miss is better than nothing.
func SelectPreferred(pages []*Page, bookItemID string) *Page {
	if page := SelectPage(pages, bookItemID); page != nil {
		return page
	}
	if len(pages) > 0 {
		return pages[0]
	}
	return nil
}
