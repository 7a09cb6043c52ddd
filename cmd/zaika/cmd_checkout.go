package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rsharma-dev/zaika/internal/payment"
)

// zaika checkout — pay for the cart through the gateway. Ctrl-C while waiting
// for the gateway dismisses the widget and leaves the cart untouched.
var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Pay for your cart through the payment gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if !a.sess.IsAuthenticated() {
			return fmt.Errorf("log in before checking out")
		}

		paymentFlags.Method = "Razorpay"
		draft, err := buildDraft(cmd, a)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		bridge := payment.NewBridge(a.payment, a.orders, a.cart, payment.NewCallbackWidget())
		receipt, err := bridge.Checkout(ctx, draft)
		if err != nil {
			switch {
			case errors.Is(err, payment.ErrCancelled):
				fmt.Println("Payment cancelled. Your cart is unchanged.")
				return nil
			case errors.Is(err, payment.ErrNotSettled):
				fmt.Println("Payment could not be confirmed. Check `zaika orders` before paying again; your cart is unchanged.")
				return err
			}
			return err
		}

		fmt.Printf("Payment settled. Order %s confirmed.\n", receipt.OrderID)
		if receipt.Bill != "" {
			fmt.Println()
			fmt.Println(receipt.Bill)
		}
		return nil
	},
}

// zaika retry-payment — restart payment for an order whose payment failed.
var retryPaymentCmd = &cobra.Command{
	Use:   "retry-payment <order-id>",
	Short: "Retry payment for an existing order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		o, err := a.orders.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		intent, err := a.payment.Retry(ctx, o.ID, int64(o.Total*100))
		if err != nil {
			return err
		}

		widget := payment.NewCallbackWidget()
		result, err := widget.Open(ctx, intent)
		if err != nil {
			return err
		}
		if result.Status != "success" {
			fmt.Printf("Gateway reported %q; the order is unchanged.\n", result.Status)
			return nil
		}

		verified, err := a.payment.Verify(ctx, payment.VerifyRequest{
			GatewayOrderID:   result.OrderRef,
			GatewayPaymentID: result.PaymentID,
			GatewaySignature: result.Signature,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Payment for order %s is now %q.\n", verified.OrderID, verified.Status)
		return nil
	},
}

func init() {
	billingFlagSet(checkoutCmd)
	checkoutCmd.Flags().StringVar(&paymentFlags.UPIID, "upi-id", "", "UPI id to pass to the gateway (optional)")

	rootCmd.AddCommand(retryPaymentCmd)
}
