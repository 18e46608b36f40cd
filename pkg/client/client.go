package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mchmarny/menuview/pkg/menu"
)

var (
	// ErrStatus is returned when the endpoint answers with a non-2xx status.
	ErrStatus = errors.New("unexpected HTTP status")

	// ErrNetwork is returned when the request could not be completed.
	ErrNetwork = errors.New("network error")

	// ErrDecode is returned when the body is not a JSON array of menu items.
	ErrDecode = errors.New("invalid menu payload")
)

// Client loads the menu from a fixed endpoint.
type Client struct {
	url  string
	http *http.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for the request.
// If not specified, http.DefaultClient is used, with its default (absent) timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// New creates a client for the menu endpoint at url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:  url,
		http: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch issues a single GET to the endpoint and decodes the menu in response order.
// Item fields are not validated or transformed.
// Errors wrap ErrStatus, ErrNetwork or ErrDecode.
func (c *Client) Fetch(ctx context.Context) ([]menu.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrNetwork, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %w", ErrNetwork, err)
	}

	// Unmarshal rejects trailing data after the array.
	var items []menu.Item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return items, nil
}

// Load fetches the menu and reports the settled state. Every failure is logged
// and collapses to the Empty state, as does a menu without items.
func (c *Client) Load(ctx context.Context) State {
	items, err := c.Fetch(ctx)
	if err != nil {
		slog.Error("failed to fetch menu",
			"url", c.url,
			"kind", errorKind(err),
			"error", err)
		return State{Kind: Empty}
	}

	if len(items) == 0 {
		slog.Info("menu is empty", "url", c.url)
		return State{Kind: Empty}
	}

	slog.Debug("menu loaded", "url", c.url, "items", len(items))

	return State{Kind: Loaded, Items: items}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrDecode):
		return "parse"
	case errors.Is(err, ErrNetwork):
		return "network"
	default:
		return "unknown"
	}
}
