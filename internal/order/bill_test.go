package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBill = `==========================================
              ZAIKA RESTAURANT
==========================================
Order ID: ORD-123
Order Date: 2026-08-30
Payment Mode: COD
Status: confirmed

No.  Item                 Qty   Price    Total
----------------------------------------------
1    Margherita Pizza     2     $10.00   $20.00
2    Caesar Salad         1     $5.50    $5.50

Subtotal: $25.50
GST (5%): $1.28
Total: $26.78
`

func TestParseBill(t *testing.T) {
	bill := ParseBill(sampleBill)
	require.NotNil(t, bill)

	assert.Equal(t, "ORD-123", bill.OrderID)
	assert.Equal(t, "2026-08-30", bill.OrderDate)
	assert.Equal(t, "COD", bill.PaymentMode)
	assert.Equal(t, "confirmed", bill.Status)

	require.Len(t, bill.Items, 2)
	assert.Equal(t, BillItem{Number: 1, Name: "Margherita Pizza", Quantity: 2, UnitPrice: 10, Total: 20}, bill.Items[0])
	assert.Equal(t, BillItem{Number: 2, Name: "Caesar Salad", Quantity: 1, UnitPrice: 5.5, Total: 5.5}, bill.Items[1])

	assert.InDelta(t, 25.50, bill.Subtotal, 1e-9)
	assert.InDelta(t, 5.0, bill.GSTRate, 1e-9)
	assert.InDelta(t, 1.28, bill.GST, 1e-9)
	assert.InDelta(t, 26.78, bill.Total, 1e-9)
}

func TestParseBillEmptyInput(t *testing.T) {
	assert.Nil(t, ParseBill(""))
	assert.Nil(t, ParseBill("   \n  "))
}

func TestParseBillSkipsUnrecognisedLines(t *testing.T) {
	bill := ParseBill("Thank you for ordering!\nOrder ID: X-1\nsome noise\nTotal: $9.99\n")
	require.NotNil(t, bill)
	assert.Equal(t, "X-1", bill.OrderID)
	assert.InDelta(t, 9.99, bill.Total, 1e-9)
	assert.Empty(t, bill.Items)
}
