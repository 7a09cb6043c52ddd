// Package catalog is the read-only client for the food catalogue.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rsharma-dev/zaika/config"
	"github.com/rsharma-dev/zaika/pkg/cache"
	zhttp "github.com/rsharma-dev/zaika/pkg/http"
)

// Food is a single menu entry as served by the backend.
type Food struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
}

const listCacheKey = "zaika:foods"
const cacheTTL = 5 * time.Minute

// Client fetches the food list and single-item details. Stateless.
type Client struct {
	base string
}

// NewClient returns a catalog client against the configured backend.
func NewClient() *Client {
	return &Client{base: config.APIBaseURL()}
}

// List returns the full catalogue. Reads through the optional cache; the
// backend response is safe to retry.
func (c *Client) List(ctx context.Context) ([]Food, error) {
	var foods []Food
	if cache.Get(listCacheKey, &foods) {
		return foods, nil
	}

	resp, err := zhttp.Get(c.base + "/foods").
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	if err := resp.JSON(&foods); err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}

	_ = cache.Set(listCacheKey, foods, cacheTTL)
	return foods, nil
}

// Get returns a single item's detail.
func (c *Client) Get(ctx context.Context, id string) (Food, error) {
	key := listCacheKey + ":" + id

	var food Food
	if cache.Get(key, &food) {
		return food, nil
	}

	resp, err := zhttp.Get(c.base + "/foods/" + id).
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return Food{}, fmt.Errorf("catalog: get %s: %w", id, err)
	}
	if err := resp.Throw(); err != nil {
		return Food{}, fmt.Errorf("catalog: get %s: %w", id, err)
	}
	if err := resp.JSON(&food); err != nil {
		return Food{}, fmt.Errorf("catalog: get %s: %w", id, err)
	}

	_ = cache.Set(key, food, cacheTTL)
	return food, nil
}
