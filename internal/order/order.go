// Package order converts a populated cart plus billing details into an
// order-creation request and reads back orders and their bills.
package order

import (
	"github.com/rsharma-dev/zaika/internal/cart"
	"github.com/rsharma-dev/zaika/internal/catalog"
	"github.com/rsharma-dev/zaika/pkg/collection"
	"github.com/rsharma-dev/zaika/pkg/validate"
)

// GSTRate is the backend's tax formula: 5% GST, no delivery charge. The
// amounts here are display-side only; the amount actually charged always
// comes from the backend.
const GSTRate = 0.05

// Item is a single order line.
type Item struct {
	FoodID   string  `json:"foodId"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// BillingDetails mirrors the checkout form. Validation is shallow presence
// and format checks; the backend has the authoritative say.
type BillingDetails struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName"  validate:"required,min=1,max=100"`
	Email     string `json:"email"     validate:"required,email"`
	Address   string `json:"address"   validate:"required"`
	Zip       string `json:"zip"       validate:"required,digits=6"`
	Locality  string `json:"locality"  validate:"required"`
	Landmark  string `json:"landmark"  validate:"nullable"`
	Country   string `json:"country"   validate:"required"`
	State     string `json:"state"     validate:"required"`
}

// PaymentDetails carries the chosen payment instrument.
type PaymentDetails struct {
	Method string `json:"method" validate:"required,in=COD|UPI|Razorpay"`
	UPIID  string `json:"upiId"  validate:"nullable,regex=^[a-zA-Z0-9._\\-]+@[a-zA-Z]+$"`
}

// Summary is the client-computed bill preview.
type Summary struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Draft is the order-creation request. It is built immediately before
// submission and discarded after the backend accepts or rejects it.
type Draft struct {
	UserID         string         `json:"userId,omitempty"`
	Items          []Item         `json:"items"`
	BillingDetails BillingDetails `json:"billingDetails"`
	PaymentDetails PaymentDetails `json:"paymentDetails"`
	PaymentMode    string         `json:"paymentMode"`
	OrderSummary   Summary        `json:"orderSummary"`
}

// Totals computes the bill preview for a set of lines.
func Totals(items []Item) Summary {
	subtotal := collection.Reduce(items, 0.0, func(acc float64, it Item) float64 {
		return acc + it.Price*float64(it.Quantity)
	})
	tax := subtotal * GSTRate

	return Summary{
		Subtotal: subtotal,
		Shipping: 0,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// Lines resolves a quantity map against the catalogue into order lines.
// Items missing from the catalogue are skipped.
func Lines(foods []catalog.Food, q cart.Quantities) []Item {
	inCart := collection.Filter(foods, func(f catalog.Food) bool {
		return q[f.ID] > 0
	})
	return collection.Map(inCart, func(f catalog.Food) Item {
		return Item{FoodID: f.ID, Name: f.Name, Quantity: q[f.ID], Price: f.Price}
	})
}

// NewDraft assembles a draft from resolved lines and the billing form.
func NewDraft(items []Item, billing BillingDetails, payment PaymentDetails) Draft {
	return Draft{
		Items:          items,
		BillingDetails: billing,
		PaymentDetails: payment,
		PaymentMode:    payment.Method,
		OrderSummary:   Totals(items),
	}
}

// Validate runs the shallow client-side checks. An empty map means the draft
// can be submitted.
func (d Draft) Validate() map[string]string {
	errs := validate.Struct(d.BillingDetails)
	for k, v := range validate.Struct(d.PaymentDetails) {
		errs[k] = v
	}
	if len(d.Items) == 0 {
		errs["items"] = "The cart must contain at least one item."
	}
	return errs
}
