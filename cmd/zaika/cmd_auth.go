package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rsharma-dev/zaika/internal/user"
)

// zaika login — exchange credentials for a token. Storing the token fires the
// login event, which triggers the cart merge before the command returns.
var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and merge your guest cart into your account cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Print("Password: ")
		password, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}

		resp, err := a.users.Login(cmd.Context(), user.Credentials{
			Email:    args[0],
			Password: strings.TrimSpace(password),
		})
		if err != nil {
			return err
		}

		if err := a.sess.Login(resp.Token, resp.Email); err != nil {
			return err
		}

		// Login fires the merge synchronously; a failed merge keeps the
		// guest copy on disk for the next `zaika cart sync`.
		if !a.cart.IsRemote() {
			fmt.Println("Logged in, but your account cart could not be reached. Your guest cart is kept; run `zaika cart sync` to merge it.")
			return nil
		}
		fmt.Printf("Logged in as %s. Cart: %d item(s).\n", resp.Email, a.cart.Items().Count())
		return nil
	},
}

// zaika register — create an account.
var registerCmd = &cobra.Command{
	Use:   "register <name> <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Print("Password: ")
		password, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}

		if err := a.users.Register(cmd.Context(), user.Registration{
			Name:     args[0],
			Email:    args[1],
			Password: strings.TrimSpace(password),
		}); err != nil {
			return err
		}
		fmt.Println("Account created. Run `zaika login` to sign in.")
		return nil
	},
}

// zaika logout — clear the stored credential and fall back to a guest cart.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.sess.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out. You are now browsing as a guest.")
		return nil
	},
}

var profilePhone string

// zaika profile — update account name/email/phone.
var profileCmd = &cobra.Command{
	Use:   "profile <name> <email>",
	Short: "Update your account profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if !a.sess.IsAuthenticated() {
			return fmt.Errorf("log in first")
		}

		if err := a.users.UpdateProfile(cmd.Context(), user.Profile{
			Name:  args[0],
			Email: args[1],
			Phone: profilePhone,
		}); err != nil {
			return err
		}
		fmt.Println("Profile updated.")
		return nil
	},
}

// zaika passwd — rotate the account password.
var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your account password",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if !a.sess.IsAuthenticated() {
			return fmt.Errorf("log in first")
		}

		in := bufio.NewReader(os.Stdin)
		fmt.Print("Current password: ")
		oldPw, err := in.ReadString('\n')
		if err != nil {
			return err
		}
		fmt.Print("New password: ")
		newPw, err := in.ReadString('\n')
		if err != nil {
			return err
		}

		if err := a.users.ChangePassword(cmd.Context(), strings.TrimSpace(oldPw), strings.TrimSpace(newPw)); err != nil {
			return err
		}
		fmt.Println("Password changed.")
		return nil
	},
}

// zaika whoami — show the current identity.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if !a.sess.IsAuthenticated() {
			fmt.Println("Not logged in.")
			return nil
		}

		email := a.sess.Email()
		if claims, err := a.sess.Claims(); err == nil && claims.Email != "" {
			email = claims.Email
		}
		fmt.Printf("Logged in as %s\n", email)
		return nil
	},
}

func init() {
	profileCmd.Flags().StringVar(&profilePhone, "phone", "", "10-digit phone number (optional)")
}
