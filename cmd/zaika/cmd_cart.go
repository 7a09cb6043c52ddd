package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rsharma-dev/zaika/internal/cart"
	"github.com/rsharma-dev/zaika/internal/order"
)

var removeAll bool

// zaika cart — show the cart with prices and the grand total.
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show your cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		items := a.cart.Items()
		if items.IsEmpty() {
			fmt.Println("Your cart is empty.")
			return nil
		}

		foods, err := a.catalog.List(cmd.Context())
		if err != nil {
			return err
		}

		lines := order.Lines(foods, items)
		totals := order.Totals(lines)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ITEM\tQTY\tPRICE\tTOTAL")
		for _, l := range lines {
			fmt.Fprintf(w, "%s\t%d\t₹%.2f\t₹%.2f\n", l.Name, l.Quantity, l.Price, l.Price*float64(l.Quantity))
		}
		fmt.Fprintf(w, "\tSubtotal\t\t₹%.2f\n", totals.Subtotal)
		fmt.Fprintf(w, "\tGST (%.0f%%)\t\t₹%.2f\n", order.GSTRate*100, totals.Tax)
		fmt.Fprintf(w, "\tTotal\t\t₹%.2f\n", totals.Total)
		if err := w.Flush(); err != nil {
			return err
		}

		if !a.cart.IsRemote() {
			fmt.Println("\n(guest cart, stored locally; log in to keep it on your account)")
		}
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <food-id>",
	Short: "Add one of a food to your cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.cart.AddQuantity(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, cart.ErrProvisional) {
				fmt.Println("Added locally; the server could not be reached. The count will be corrected on the next sync.")
				return nil
			}
			return err
		}
		fmt.Printf("Added. Cart: %d item(s).\n", a.cart.Items().Count())
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <food-id>",
	Short: "Remove one of a food from your cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.cart.RemoveQuantity(cmd.Context(), args[0], removeAll); err != nil {
			return err
		}
		fmt.Printf("Removed. Cart: %d item(s).\n", a.cart.Items().Count())
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty your cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.cart.ClearCartItems(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Cart cleared.")
		return nil
	},
}

// zaika cart sync — re-run the merge (after a failed merge-on-login) or
// refresh the local view from the server.
var cartSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync your cart with the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if !a.sess.IsAuthenticated() {
			fmt.Println("Guest carts live on this machine only; nothing to sync.")
			return nil
		}

		if err := a.cart.Reconcile(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Synced. Cart: %d item(s).\n", a.cart.Items().Count())
		return nil
	},
}

func init() {
	cartRemoveCmd.Flags().BoolVar(&removeAll, "all", false, "remove the item entirely, regardless of quantity")

	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)
	cartCmd.AddCommand(cartSyncCmd)
}
