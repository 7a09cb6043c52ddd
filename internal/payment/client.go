package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/rsharma-dev/zaika/config"
	"github.com/rsharma-dev/zaika/internal/order"
	zhttp "github.com/rsharma-dev/zaika/pkg/http"
)

// VerifyRequest forwards the widget's opaque receipt fields to the backend.
type VerifyRequest struct {
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	GatewaySignature string `json:"gatewaySignature"`
}

// VerifyResponse is the backend's verdict on a receipt.
type VerifyResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// StatusResponse reports the backend's view of a payment.
type StatusResponse struct {
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
	Status    string `json:"status"`
}

// Client talks to the backend payment endpoints. Initiation and verification
// are never retried automatically: replaying either could create a second
// gateway order or double-confirm a receipt.
type Client struct {
	base  string
	token func() string
}

// NewClient returns a payment client authenticated by token.
func NewClient(token func() string) *Client {
	return &Client{base: config.APIBaseURL(), token: token}
}

// Initiate starts gateway-mediated checkout for a draft and returns the
// backend's payment intent.
func (c *Client) Initiate(ctx context.Context, draft order.Draft) (Intent, error) {
	resp, err := zhttp.Post(c.base + "/payment/initiate").
		Bearer(c.token()).
		Body(draft).
		WithContext(ctx).
		Send()
	if err != nil {
		return Intent{}, fmt.Errorf("payment: initiate: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return Intent{}, fmt.Errorf("payment: initiate: %w", err)
	}

	var intent Intent
	if err := resp.JSON(&intent); err != nil {
		return Intent{}, fmt.Errorf("payment: initiate: %w", err)
	}
	return intent, nil
}

// Verify confirms a gateway receipt with the backend.
func (c *Client) Verify(ctx context.Context, req VerifyRequest) (VerifyResponse, error) {
	resp, err := zhttp.Post(c.base + "/payment/verify").
		Bearer(c.token()).
		Body(req).
		WithContext(ctx).
		Send()
	if err != nil {
		return VerifyResponse{}, fmt.Errorf("payment: verify: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return VerifyResponse{}, fmt.Errorf("payment: verify: %w", err)
	}

	var out VerifyResponse
	if err := resp.JSON(&out); err != nil {
		return VerifyResponse{}, fmt.Errorf("payment: verify: %w", err)
	}
	return out, nil
}

// Status fetches the backend's view of a payment. Safe to retry.
func (c *Client) Status(ctx context.Context, paymentID string) (StatusResponse, error) {
	resp, err := zhttp.Get(c.base + "/payment/" + paymentID).
		Bearer(c.token()).
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return StatusResponse{}, fmt.Errorf("payment: status %s: %w", paymentID, err)
	}
	if err := resp.Throw(); err != nil {
		return StatusResponse{}, fmt.Errorf("payment: status %s: %w", paymentID, err)
	}

	var out StatusResponse
	if err := resp.JSON(&out); err != nil {
		return StatusResponse{}, fmt.Errorf("payment: status %s: %w", paymentID, err)
	}
	return out, nil
}

// Retry asks the backend to restart payment for an existing order.
func (c *Client) Retry(ctx context.Context, orderID string, amount int64) (Intent, error) {
	resp, err := zhttp.Post(c.base + "/payment/retry").
		Bearer(c.token()).
		Body(map[string]interface{}{"orderId": orderID, "amount": amount}).
		WithContext(ctx).
		Send()
	if err != nil {
		return Intent{}, fmt.Errorf("payment: retry %s: %w", orderID, err)
	}
	if err := resp.Throw(); err != nil {
		return Intent{}, fmt.Errorf("payment: retry %s: %w", orderID, err)
	}

	var intent Intent
	if err := resp.JSON(&intent); err != nil {
		return Intent{}, fmt.Errorf("payment: retry %s: %w", orderID, err)
	}
	return intent, nil
}
