package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rsharma-dev/zaika/internal/order"
	"github.com/rsharma-dev/zaika/pkg/storage"
)

var (
	billingFlags order.BillingDetails
	paymentFlags order.PaymentDetails

	billSave bool
	billPDF  bool
)

// zaika order — place a cash-on-delivery or UPI order straight from the cart.
// Gateway payment goes through `zaika checkout` instead.
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place an order from your cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if !a.sess.IsAuthenticated() {
			return fmt.Errorf("log in before placing an order")
		}

		draft, err := buildDraft(cmd, a)
		if err != nil {
			return err
		}

		created, bill, err := a.orders.Place(cmd.Context(), a.cart, draft)
		if err != nil {
			return err
		}

		fmt.Printf("Order %s placed (%s).\n", created.OrderID, created.Status)
		if bill != "" {
			fmt.Println()
			fmt.Println(bill)
		}
		return nil
	},
}

// zaika orders — list your order history.
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		orders, err := a.orders.ListMine(cmd.Context())
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("No orders yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ORDER\tPLACED\tSTATUS\tPAYMENT\tTOTAL")
		for _, o := range orders {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t₹%.2f\n", o.ID, o.CreatedAt, o.Status, o.PaymentMode, o.Total)
		}
		return w.Flush()
	},
}

// zaika bill — fetch an order's bill, print it, optionally archive it to the
// configured storage disk.
var billCmd = &cobra.Command{
	Use:   "bill <order-id>",
	Short: "Fetch the bill for an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		orderID := args[0]

		if billPDF {
			raw, err := a.orders.BillPDF(cmd.Context(), orderID)
			if err != nil {
				return err
			}
			path := "bills/" + orderID + ".pdf"
			if err := storage.Put(path, raw); err != nil {
				return err
			}
			fmt.Printf("Saved %s (%d bytes).\n", path, len(raw))
			return nil
		}

		text, err := a.orders.BillText(cmd.Context(), orderID)
		if err != nil {
			return err
		}
		fmt.Println(text)

		if parsed := order.ParseBill(text); parsed != nil && len(parsed.Items) > 0 {
			fmt.Printf("(%d line item(s), total $%.2f)\n", len(parsed.Items), parsed.Total)
		}

		if billSave {
			path := "bills/" + orderID + ".txt"
			if err := storage.Put(path, []byte(text)); err != nil {
				return err
			}
			fmt.Printf("Saved %s.\n", path)
		}
		return nil
	},
}

// buildDraft resolves the cart against the catalogue and attaches the billing
// flags.
func buildDraft(cmd *cobra.Command, a *app) (order.Draft, error) {
	items := a.cart.Items()
	if items.IsEmpty() {
		return order.Draft{}, fmt.Errorf("your cart is empty")
	}

	foods, err := a.catalog.List(cmd.Context())
	if err != nil {
		return order.Draft{}, err
	}

	if billingFlags.Email == "" {
		billingFlags.Email = a.sess.Email()
	}

	draft := order.NewDraft(order.Lines(foods, items), billingFlags, paymentFlags)
	if errs := draft.Validate(); len(errs) > 0 {
		for field, msg := range errs {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		return order.Draft{}, fmt.Errorf("the order form is incomplete")
	}
	return draft, nil
}

func billingFlagSet(c *cobra.Command) {
	c.Flags().StringVar(&billingFlags.FirstName, "first-name", "", "billing first name")
	c.Flags().StringVar(&billingFlags.LastName, "last-name", "", "billing last name")
	c.Flags().StringVar(&billingFlags.Email, "email", "", "billing email (defaults to your account email)")
	c.Flags().StringVar(&billingFlags.Address, "address", "", "street address")
	c.Flags().StringVar(&billingFlags.Zip, "zip", "", "6-digit postal code")
	c.Flags().StringVar(&billingFlags.Locality, "locality", "", "locality")
	c.Flags().StringVar(&billingFlags.Landmark, "landmark", "", "landmark (optional)")
	c.Flags().StringVar(&billingFlags.Country, "country", "India", "country")
	c.Flags().StringVar(&billingFlags.State, "state", "", "state")
}

func init() {
	billingFlagSet(orderCmd)
	orderCmd.Flags().StringVar(&paymentFlags.Method, "method", "COD", "payment method: COD or UPI")
	orderCmd.Flags().StringVar(&paymentFlags.UPIID, "upi-id", "", "UPI id, required with --method UPI")

	billCmd.Flags().BoolVar(&billSave, "save", false, "archive the bill to the storage disk")
	billCmd.Flags().BoolVar(&billPDF, "pdf", false, "fetch the PDF bill and archive it")
}
