package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zaika",
	Short: "Zaika — food ordering from the terminal",
	Long:  "Zaika is a terminal client for the Zaika food delivery backend: browse the menu, manage your cart, and pay for orders.",
}

func init() {
	// Catalog
	rootCmd.AddCommand(menuCmd)

	// Account
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(passwdCmd)

	// Cart
	rootCmd.AddCommand(cartCmd)

	// Orders and payment
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(billCmd)
	rootCmd.AddCommand(checkoutCmd)
}
