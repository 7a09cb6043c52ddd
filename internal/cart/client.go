package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/rsharma-dev/zaika/config"
	zhttp "github.com/rsharma-dev/zaika/pkg/http"
)

// updateRequest is the bulk-replace payload for PUT /carts.
type updateRequest struct {
	Items Quantities `json:"items"`
}

// Client talks to the backend cart endpoints. Every mutating call returns the
// server's snapshot: the server is the source of truth for resulting counts,
// the client never computes them itself while remote.
//
// Retry policy follows the endpoints' idempotency guarantees: fetch, item
// removal and clear are safe to replay; the bulk update is not (applied twice
// it double-decrements), so it is sent exactly once.
type Client struct {
	base  string
	token func() string
}

// NewClient returns a cart client. token supplies the current credential on
// every call so the client follows login/logout transitions.
func NewClient(token func() string) *Client {
	return &Client{base: config.APIBaseURL(), token: token}
}

// Fetch returns the current user's cart.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	resp, err := zhttp.Get(c.base + "/carts").
		Bearer(c.token()).
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return Snapshot{}, fmt.Errorf("cart: fetch: %w", err)
	}
	return decodeSnapshot(resp, "fetch")
}

// AddItem adds one unit of foodID server-side.
func (c *Client) AddItem(ctx context.Context, foodID string) (Snapshot, error) {
	resp, err := zhttp.Post(c.base + "/carts/items/" + foodID).
		Bearer(c.token()).
		WithContext(ctx).
		Send()
	if err != nil {
		return Snapshot{}, fmt.Errorf("cart: add item %s: %w", foodID, err)
	}
	return decodeSnapshot(resp, "add item")
}

// Update bulk-replaces the cart items. Never retried automatically.
func (c *Client) Update(ctx context.Context, items Quantities) (Snapshot, error) {
	resp, err := zhttp.Put(c.base + "/carts").
		Bearer(c.token()).
		Body(updateRequest{Items: items}).
		WithContext(ctx).
		Send()
	if err != nil {
		return Snapshot{}, fmt.Errorf("cart: update: %w", err)
	}
	return decodeSnapshot(resp, "update")
}

// RemoveItem removes foodID entirely. Safe to retry.
func (c *Client) RemoveItem(ctx context.Context, foodID string) (Snapshot, error) {
	resp, err := zhttp.Delete(c.base + "/carts/items/" + foodID).
		Bearer(c.token()).
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return Snapshot{}, fmt.Errorf("cart: remove item %s: %w", foodID, err)
	}
	return decodeSnapshot(resp, "remove item")
}

// Clear empties the cart server-side. Safe to retry.
func (c *Client) Clear(ctx context.Context) (Snapshot, error) {
	resp, err := zhttp.Delete(c.base + "/carts").
		Bearer(c.token()).
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return Snapshot{}, fmt.Errorf("cart: clear: %w", err)
	}
	return decodeSnapshot(resp, "clear")
}

func decodeSnapshot(resp *zhttp.Response, op string) (Snapshot, error) {
	if err := resp.Throw(); err != nil {
		return Snapshot{}, fmt.Errorf("cart: %s: %w", op, err)
	}
	var snap Snapshot
	if err := resp.JSON(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("cart: %s: %w", op, err)
	}
	if snap.Items == nil {
		snap.Items = Quantities{}
	}
	return snap, nil
}
