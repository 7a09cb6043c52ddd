// Package payment implements the gateway-mediated checkout: initiating a
// payment against the backend, handing control to the external widget, and
// verifying the widget's receipt before the cart is considered consumed.
package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rsharma-dev/zaika/internal/cart"
	"github.com/rsharma-dev/zaika/internal/order"
	"github.com/rsharma-dev/zaika/pkg/logger"
)

// State is the bridge's position in the checkout state machine.
type State int

const (
	StateIdle State = iota
	StateInitiating
	StateAwaitingGateway
	StateVerifying
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitiating:
		return "initiating"
	case StateAwaitingGateway:
		return "awaiting_gateway"
	case StateVerifying:
		return "verifying"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy rejects a checkout started while another one is in flight.
	ErrBusy = errors.New("payment: checkout already in progress")

	// ErrCancelled marks a user-dismissed widget. No side effects, no cart
	// mutation.
	ErrCancelled = errors.New("payment: cancelled by user")

	// ErrNotSettled marks a verification response the client could not
	// positively classify as success. The cart is left untouched; the user
	// should check order history instead of assuming success.
	ErrNotSettled = errors.New("payment: not settled")
)

// Intent is the backend-issued record the widget is initialized against.
// Amount is in minor currency units and is the authoritative amount due: the
// client never substitutes its own arithmetic for it.
type Intent struct {
	OrderID        string `json:"orderId"`
	GatewayOrderID string `json:"gatewayOrderId"`
	Amount         int64  `json:"totalAmountDue"`
	Key            string `json:"gatewayKey"`
}

// Result is what the widget reports back.
type Result struct {
	Status    string // "success", "failed" or "cancelled"
	PaymentID string
	OrderRef  string
	Signature string
}

// Widget hands control to the external payment surface. Opening is
// asynchronous from the user's point of view and always cancellable.
type Widget interface {
	Open(ctx context.Context, intent Intent) (Result, error)
}

// Receipt is handed to the receipt view after settlement.
type Receipt struct {
	OrderID string
	Bill    string
}

// settled reports whether a verification status is one the backend contract
// defines as accepted. No additional synonyms are guessed.
func settled(status string) bool {
	switch status {
	case "paid", "completed", "pending":
		return true
	}
	return false
}

// Bridge drives Idle → Initiating → AwaitingGatewayResult → Verifying →
// Settled, with error exits back to Idle so the user may retry.
type Bridge struct {
	client *Client
	orders *order.Client
	store  *cart.Store
	widget Widget

	mu    sync.Mutex
	state State
}

// NewBridge wires the bridge to its collaborators.
func NewBridge(client *Client, orders *order.Client, store *cart.Store, widget Widget) *Bridge {
	return &Bridge{client: client, orders: orders, store: store, widget: widget}
}

// State returns the bridge's current state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bridge) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
	logger.Debug("payment: state", "state", s.String())
}

// Checkout runs one full pass of the state machine. On settlement it clears
// only the local cart (the backend already cleared its copy during
// verification) and returns the receipt. On every other outcome the cart
// keeps its pre-checkout contents.
func (b *Bridge) Checkout(ctx context.Context, draft order.Draft) (*Receipt, error) {
	b.mu.Lock()
	if b.state != StateIdle && b.state != StateSettled {
		b.mu.Unlock()
		return nil, ErrBusy
	}
	b.state = StateInitiating
	b.mu.Unlock()

	if errs := draft.Validate(); len(errs) > 0 {
		b.setState(StateIdle)
		return nil, fmt.Errorf("payment: invalid draft: %v", errs)
	}

	intent, err := b.client.Initiate(ctx, draft)
	if err != nil {
		b.setState(StateIdle)
		return nil, err
	}

	b.setState(StateAwaitingGateway)
	result, err := b.widget.Open(ctx, intent)
	if err != nil {
		b.setState(StateIdle)
		return nil, fmt.Errorf("payment: widget: %w", err)
	}

	switch result.Status {
	case "success":
	case "cancelled":
		b.setState(StateIdle)
		return nil, ErrCancelled
	default:
		b.setState(StateIdle)
		return nil, fmt.Errorf("payment: gateway reported %q", result.Status)
	}

	b.setState(StateVerifying)
	verified, err := b.client.Verify(ctx, VerifyRequest{
		GatewayOrderID:   result.OrderRef,
		GatewayPaymentID: result.PaymentID,
		GatewaySignature: result.Signature,
	})
	if err != nil {
		b.setState(StateIdle)
		return nil, fmt.Errorf("%w: %w", ErrNotSettled, err)
	}
	if !settled(verified.Status) {
		b.setState(StateIdle)
		return nil, fmt.Errorf("%w: backend reported %q", ErrNotSettled, verified.Status)
	}

	// Settled: the backend cleared its cart during verification, so only the
	// local view is cleared here. A remote clear would race the response.
	b.setState(StateSettled)
	b.store.ClearLocalCart()

	bill, err := b.orders.BillText(ctx, intent.OrderID)
	if err != nil {
		logger.Warn("payment: bill fetch after settlement", "order_id", intent.OrderID, "error", err)
		bill = ""
	}

	return &Receipt{OrderID: intent.OrderID, Bill: bill}, nil
}
