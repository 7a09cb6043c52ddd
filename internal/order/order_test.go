package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rsharma-dev/zaika/internal/cart"
	"github.com/rsharma-dev/zaika/internal/catalog"
)

func TestTotals(t *testing.T) {
	items := []Item{
		{FoodID: "pizza", Quantity: 2, Price: 40},
		{FoodID: "salad", Quantity: 1, Price: 20},
	}

	s := Totals(items)
	assert.InDelta(t, 100.0, s.Subtotal, 1e-9)
	assert.InDelta(t, 0.0, s.Shipping, 1e-9)
	assert.InDelta(t, 5.0, s.Tax, 1e-9)
	assert.InDelta(t, 105.0, s.Total, 1e-9)
}

func TestTotalsEmpty(t *testing.T) {
	s := Totals(nil)
	assert.Zero(t, s.Subtotal)
	assert.Zero(t, s.Tax)
	assert.Zero(t, s.Total)
}

func TestLinesResolvesAgainstCatalogue(t *testing.T) {
	foods := []catalog.Food{
		{ID: "pizza", Name: "Margherita", Price: 40},
		{ID: "salad", Name: "Caesar", Price: 20},
		{ID: "soup", Name: "Tomato", Price: 15},
	}
	q := cart.Quantities{"pizza": 2, "salad": 1, "unknown": 4}

	lines := Lines(foods, q)
	assert.Len(t, lines, 2)
	assert.Equal(t, Item{FoodID: "pizza", Name: "Margherita", Quantity: 2, Price: 40}, lines[0])
	assert.Equal(t, Item{FoodID: "salad", Name: "Caesar", Quantity: 1, Price: 20}, lines[1])
}

func validBilling() BillingDetails {
	return BillingDetails{
		FirstName: "Ravi",
		LastName:  "Sharma",
		Email:     "ravi@example.com",
		Address:   "12 MG Road",
		Zip:       "560001",
		Locality:  "Indiranagar",
		Country:   "India",
		State:     "Karnataka",
	}
}

func TestDraftValidate(t *testing.T) {
	items := []Item{{FoodID: "pizza", Quantity: 1, Price: 40}}

	draft := NewDraft(items, validBilling(), PaymentDetails{Method: "COD"})
	assert.Empty(t, draft.Validate())

	t.Run("missing billing fields", func(t *testing.T) {
		b := validBilling()
		b.Email = "not-an-email"
		b.Zip = "123"
		errs := NewDraft(items, b, PaymentDetails{Method: "COD"}).Validate()
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "zip")
	})

	t.Run("unknown payment method", func(t *testing.T) {
		errs := NewDraft(items, validBilling(), PaymentDetails{Method: "Barter"}).Validate()
		assert.Contains(t, errs, "method")
	})

	t.Run("empty cart", func(t *testing.T) {
		errs := NewDraft(nil, validBilling(), PaymentDetails{Method: "COD"}).Validate()
		assert.Contains(t, errs, "items")
	})
}

func TestNewDraftComputesSummary(t *testing.T) {
	items := []Item{{FoodID: "pizza", Quantity: 2, Price: 50}}
	draft := NewDraft(items, validBilling(), PaymentDetails{Method: "UPI", UPIID: "ravi@upi"})

	assert.Equal(t, "UPI", draft.PaymentMode)
	assert.InDelta(t, 100.0, draft.OrderSummary.Subtotal, 1e-9)
	assert.InDelta(t, 105.0, draft.OrderSummary.Total, 1e-9)
}
