package order

import (
	"strconv"
	"strings"
)

// Bill is the structured form of the backend's plain-text bill.
type Bill struct {
	OrderID     string
	OrderDate   string
	PaymentMode string
	Status      string
	Items       []BillItem
	Subtotal    float64
	GSTRate     float64
	GST         float64
	Total       float64
}

// BillItem is one row of the bill's item table.
type BillItem struct {
	Number    int
	Name      string
	Quantity  int
	UnitPrice float64
	Total     float64
}

// ParseBill turns the backend's text bill into a Bill. The format is a
// header block (Order ID / Order Date / Payment Mode / Status), an item
// table introduced by a "No. Item Qty ..." heading, and the summary lines.
// Unrecognised lines are skipped rather than failing the parse.
func ParseBill(text string) *Bill {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	bill := &Bill{}
	lines := strings.Split(text, "\n")

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		switch {
		case strings.HasPrefix(line, "Order ID:"):
			bill.OrderID = strings.TrimSpace(strings.TrimPrefix(line, "Order ID:"))

		case strings.HasPrefix(line, "Order Date:"):
			bill.OrderDate = strings.TrimSpace(strings.TrimPrefix(line, "Order Date:"))

		case strings.HasPrefix(line, "Payment Mode:"):
			bill.PaymentMode = strings.TrimSpace(strings.TrimPrefix(line, "Payment Mode:"))

		case strings.HasPrefix(line, "Status:"):
			bill.Status = strings.TrimSpace(strings.TrimPrefix(line, "Status:"))

		case strings.HasPrefix(line, "No.") && strings.Contains(line, "Item") && strings.Contains(line, "Qty"):
			// Skip the heading and the separator under it.
			i += 2
			for i < len(lines) {
				row := strings.TrimSpace(lines[i])
				if row == "" || strings.HasPrefix(row, "---") {
					break
				}
				if item, ok := parseBillRow(row); ok {
					bill.Items = append(bill.Items, item)
				}
				i++
			}

		case strings.HasPrefix(line, "Subtotal:"):
			bill.Subtotal = amountAfterDollar(line)

		case strings.Contains(line, "GST") && strings.Contains(line, "%"):
			if _, rest, ok := strings.Cut(line, "("); ok {
				if rateStr, _, ok := strings.Cut(rest, ")"); ok {
					rate, _ := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rateStr), "%")), 64)
					bill.GSTRate = rate
				}
			}
			bill.GST = amountAfterDollar(line)

		case strings.HasPrefix(line, "Total:"):
			bill.Total = amountAfterDollar(line)
		}
	}

	return bill
}

// parseBillRow parses "<no> <name...> <qty> $<unit> $<total>".
func parseBillRow(row string) (BillItem, bool) {
	parts := strings.Fields(row)
	if len(parts) < 5 {
		return BillItem{}, false
	}

	number, err := strconv.Atoi(parts[0])
	if err != nil {
		return BillItem{}, false
	}

	qty, err := strconv.Atoi(parts[len(parts)-3])
	if err != nil {
		return BillItem{}, false
	}

	unit, _ := strconv.ParseFloat(strings.TrimPrefix(parts[len(parts)-2], "$"), 64)
	total, _ := strconv.ParseFloat(strings.TrimPrefix(parts[len(parts)-1], "$"), 64)

	return BillItem{
		Number:    number,
		Name:      strings.Join(parts[1:len(parts)-3], " "),
		Quantity:  qty,
		UnitPrice: unit,
		Total:     total,
	}, true
}

func amountAfterDollar(line string) float64 {
	_, rest, ok := strings.Cut(line, "$")
	if !ok {
		return 0
	}
	v, _ := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	return v
}
