package order

import (
	"context"
	"fmt"
	"time"

	"github.com/rsharma-dev/zaika/config"
	"github.com/rsharma-dev/zaika/internal/cart"
	zhttp "github.com/rsharma-dev/zaika/pkg/http"
	"github.com/rsharma-dev/zaika/pkg/logger"
)

// Order is an order as listed by the backend.
type Order struct {
	ID          string  `json:"orderId"`
	Items       []Item  `json:"items"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
	PaymentMode string  `json:"paymentMode"`
	CreatedAt   string  `json:"createdAt"`
}

// CreateResponse is the backend's answer to a submitted draft.
type CreateResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Client talks to the backend order endpoints.
type Client struct {
	base  string
	token func() string
}

// NewClient returns an order client authenticated by token.
func NewClient(token func() string) *Client {
	return &Client{base: config.APIBaseURL(), token: token}
}

// Create submits a draft. A server rejection is surfaced verbatim, never
// reinterpreted: stock, pricing and tax are validated on the backend.
func (c *Client) Create(ctx context.Context, draft Draft) (CreateResponse, error) {
	resp, err := zhttp.Post(c.base + "/orders").
		Bearer(c.token()).
		Body(draft).
		WithContext(ctx).
		Send()
	if err != nil {
		return CreateResponse{}, fmt.Errorf("order: create: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return CreateResponse{}, fmt.Errorf("order: create: %w", err)
	}

	var out CreateResponse
	if err := resp.JSON(&out); err != nil {
		return CreateResponse{}, fmt.Errorf("order: create: %w", err)
	}
	return out, nil
}

// ListMine returns the current user's orders.
func (c *Client) ListMine(ctx context.Context) ([]Order, error) {
	resp, err := zhttp.Get(c.base + "/orders").
		Bearer(c.token()).
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, fmt.Errorf("order: list: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("order: list: %w", err)
	}

	var orders []Order
	if err := resp.JSON(&orders); err != nil {
		return nil, fmt.Errorf("order: list: %w", err)
	}
	return orders, nil
}

// Get returns a single order.
func (c *Client) Get(ctx context.Context, orderID string) (Order, error) {
	resp, err := zhttp.Get(c.base + "/orders/" + orderID).
		Bearer(c.token()).
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return Order{}, fmt.Errorf("order: get %s: %w", orderID, err)
	}
	if err := resp.Throw(); err != nil {
		return Order{}, fmt.Errorf("order: get %s: %w", orderID, err)
	}

	var out Order
	if err := resp.JSON(&out); err != nil {
		return Order{}, fmt.Errorf("order: get %s: %w", orderID, err)
	}
	return out, nil
}

// BillText fetches the human-readable bill for an order.
func (c *Client) BillText(ctx context.Context, orderID string) (string, error) {
	resp, err := zhttp.Get(c.base + "/orders/" + orderID + "/bill/text").
		Bearer(c.token()).
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return "", fmt.Errorf("order: bill text %s: %w", orderID, err)
	}
	if err := resp.Throw(); err != nil {
		return "", fmt.Errorf("order: bill text %s: %w", orderID, err)
	}
	return resp.Text(), nil
}

// BillPDF fetches the PDF bill for an order.
func (c *Client) BillPDF(ctx context.Context, orderID string) ([]byte, error) {
	resp, err := zhttp.Get(c.base + "/orders/" + orderID + "/bill/pdf").
		Bearer(c.token()).
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, fmt.Errorf("order: bill pdf %s: %w", orderID, err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("order: bill pdf %s: %w", orderID, err)
	}
	return resp.Raw, nil
}

// UpdateStatus patches an order's status.
func (c *Client) UpdateStatus(ctx context.Context, orderID, status string) error {
	resp, err := zhttp.Patch(c.base + "/orders/" + orderID + "/status").
		Bearer(c.token()).
		Body(map[string]string{"status": status}).
		WithContext(ctx).
		Send()
	if err != nil {
		return fmt.Errorf("order: update status %s: %w", orderID, err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("order: update status %s: %w", orderID, err)
	}
	return nil
}

// Place runs the direct-order flow: submit the draft, fetch the bill, then
// clear the cart remotely so the order cannot be resubmitted.
func (c *Client) Place(ctx context.Context, store *cart.Store, draft Draft) (CreateResponse, string, error) {
	if errs := draft.Validate(); len(errs) > 0 {
		return CreateResponse{}, "", fmt.Errorf("order: invalid draft: %v", errs)
	}

	created, err := c.Create(ctx, draft)
	if err != nil {
		return CreateResponse{}, "", err
	}

	bill, err := c.BillText(ctx, created.OrderID)
	if err != nil {
		// The order exists; a missing bill must not fail the flow.
		logger.Warn("order: bill fetch after create", "order_id", created.OrderID, "error", err)
		bill = ""
	}

	if err := store.ClearCartItems(ctx); err != nil {
		logger.Warn("order: cart clear after create", "order_id", created.OrderID, "error", err)
	}

	return created, bill, nil
}
