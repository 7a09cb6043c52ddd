// Package user is the client for the backend's account endpoints. Token
// issuance and password handling are entirely the backend's business; this
// client only transports the fields.
package user

import (
	"context"
	"fmt"

	"github.com/rsharma-dev/zaika/config"
	zhttp "github.com/rsharma-dev/zaika/pkg/http"
	"github.com/rsharma-dev/zaika/pkg/validate"
)

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse carries the issued credential and the display email. The
// fields are taken exactly as named by the backend; no guessing which one
// looks like an email.
type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Registration is the sign-up form.
type Registration struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Profile is the mutable account data.
type Profile struct {
	Name  string `json:"name"  validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"nullable,digits=10"`
}

// Client talks to the backend user endpoints.
type Client struct {
	base  string
	token func() string
}

// NewClient returns a user client. token may return "" for the
// unauthenticated flows (login, register).
func NewClient(token func() string) *Client {
	return &Client{base: config.APIBaseURL(), token: token}
}

// Login exchanges credentials for a token. The caller stores it through the
// session manager, which triggers the cart's merge-on-login cycle.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	if errs := validate.Struct(creds); len(errs) > 0 {
		return LoginResponse{}, fmt.Errorf("user: invalid credentials: %v", errs)
	}

	resp, err := zhttp.Post(c.base + "/users/login").
		Body(creds).
		WithContext(ctx).
		Send()
	if err != nil {
		return LoginResponse{}, fmt.Errorf("user: login: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return LoginResponse{}, fmt.Errorf("user: login: %w", err)
	}

	var out LoginResponse
	if err := resp.JSON(&out); err != nil {
		return LoginResponse{}, fmt.Errorf("user: login: %w", err)
	}
	if out.Email == "" {
		out.Email = creds.Email
	}
	return out, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	if errs := validate.Struct(reg); len(errs) > 0 {
		return fmt.Errorf("user: invalid registration: %v", errs)
	}

	resp, err := zhttp.Post(c.base + "/users/register").
		Body(reg).
		WithContext(ctx).
		Send()
	if err != nil {
		return fmt.Errorf("user: register: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("user: register: %w", err)
	}
	return nil
}

// UpdateProfile replaces the account's profile data.
func (c *Client) UpdateProfile(ctx context.Context, p Profile) error {
	if errs := validate.Struct(p); len(errs) > 0 {
		return fmt.Errorf("user: invalid profile: %v", errs)
	}

	resp, err := zhttp.Put(c.base + "/users/profile").
		Bearer(c.token()).
		Body(p).
		WithContext(ctx).
		Send()
	if err != nil {
		return fmt.Errorf("user: update profile: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("user: update profile: %w", err)
	}
	return nil
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("user: new password must be at least 6 characters")
	}

	resp, err := zhttp.Post(c.base + "/users/change-password").
		Bearer(c.token()).
		Body(map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}).
		WithContext(ctx).
		Send()
	if err != nil {
		return fmt.Errorf("user: change password: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("user: change password: %w", err)
	}
	return nil
}
