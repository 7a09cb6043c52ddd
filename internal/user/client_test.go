package user

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsharma-dev/zaika/pkg/testkit"
)

func TestLogin(t *testing.T) {
	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "POST", Path: "/api/v1/users/login", Body: LoginResponse{
			Token: "tok-1", Email: "ravi@example.com",
		}},
	)
	defer mt.Install()()

	c := NewClient(func() string { return "" })
	resp, err := c.Login(context.Background(), Credentials{Email: "ravi@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, "ravi@example.com", resp.Email)

	var sent Credentials
	require.NoError(t, json.Unmarshal(mt.LastBody("POST", "/api/v1/users/login"), &sent))
	assert.Equal(t, "ravi@example.com", sent.Email)
	mt.AssertAllCalled(t)
}

func TestLoginFallsBackToSubmittedEmail(t *testing.T) {
	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "POST", Path: "/api/v1/users/login", Body: map[string]string{"token": "tok-1"}},
	)
	defer mt.Install()()

	c := NewClient(func() string { return "" })
	resp, err := c.Login(context.Background(), Credentials{Email: "ravi@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", resp.Email)
}

func TestLoginValidatesBeforeNetwork(t *testing.T) {
	mt := testkit.NewMockTransport()
	defer mt.Install()()

	c := NewClient(func() string { return "" })
	_, err := c.Login(context.Background(), Credentials{Email: "nope", Password: "x"})
	require.Error(t, err)
	mt.AssertAllCalled(t)
}

func TestLoginSurfacesRejection(t *testing.T) {
	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "POST", Path: "/api/v1/users/login", Status: 401, Body: `{"message":"invalid credentials"}`},
	)
	defer mt.Install()()

	c := NewClient(func() string { return "" })
	_, err := c.Login(context.Background(), Credentials{Email: "ravi@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestChangePasswordRejectsShortPassword(t *testing.T) {
	mt := testkit.NewMockTransport()
	defer mt.Install()()

	c := NewClient(func() string { return "tok" })
	require.Error(t, c.ChangePassword(context.Background(), "oldpass", "abc"))
	mt.AssertAllCalled(t)
}

func TestUpdateProfile(t *testing.T) {
	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "PUT", Path: "/api/v1/users/profile", Body: `{"ok":true}`},
	)
	defer mt.Install()()

	c := NewClient(func() string { return "tok" })
	err := c.UpdateProfile(context.Background(), Profile{
		Name: "Ravi Sharma", Email: "ravi@example.com", Phone: "9876543210",
	})
	require.NoError(t, err)
	mt.AssertAllCalled(t)
}
