// Package session owns the process-wide authentication signal.
//
// The manager does not authenticate anybody: it reflects whatever the login
// and logout flows write to durable storage, and re-derives its value when
// another context broadcasts a change. Absence of a credential is a valid,
// terminal value, not a failure.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rsharma-dev/zaika/pkg/broadcast"
	"github.com/rsharma-dev/zaika/pkg/event"
	"github.com/rsharma-dev/zaika/pkg/logger"
	"github.com/rsharma-dev/zaika/pkg/storage"
)

// Events fired on the manager's bus. The cart store listens for both to pick
// its persistence strategy and to run the merge-on-login cycle.
const (
	EventLogin  = "session.login"
	EventLogout = "session.logout"
)

// Channel is the cross-context broadcast channel for session changes.
const Channel = "zaika:session"

const (
	tokenPath = "auth/token"
	emailPath = "auth/email"
)

// Manager derives the authenticated/guest signal from the stored credential.
type Manager struct {
	disk storage.Disk
	bus  *event.Bus

	mu    sync.RWMutex
	token string
	email string
}

// NewManager computes the initial signal once from the stored credential.
func NewManager(disk storage.Disk) *Manager {
	m := &Manager{disk: disk, bus: event.NewBus()}
	m.token, m.email = m.readCredential()
	return m
}

func (m *Manager) readCredential() (token, email string) {
	if raw, err := m.disk.Get(tokenPath); err == nil {
		token = string(raw)
	}
	if raw, err := m.disk.Get(emailPath); err == nil {
		email = string(raw)
	}
	return token, email
}

// Bus exposes the manager-owned event bus for subscribers.
func (m *Manager) Bus() *event.Bus { return m.bus }

// IsAuthenticated reports whether a credential is present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Token returns the stored credential, or "" for guests.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Email returns the display-only email stored alongside the credential.
func (m *Manager) Email() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.email
}

// Login stores the credential, flips the signal and notifies subscribers in
// this context and, via broadcast, every other open context.
func (m *Manager) Login(token, email string) error {
	if token == "" {
		return fmt.Errorf("session: empty credential")
	}
	if err := m.disk.Put(tokenPath, []byte(token)); err != nil {
		return fmt.Errorf("session: store credential: %w", err)
	}
	if err := m.disk.Put(emailPath, []byte(email)); err != nil {
		return fmt.Errorf("session: store email: %w", err)
	}

	m.mu.Lock()
	m.token, m.email = token, email
	m.mu.Unlock()

	m.bus.Fire(EventLogin, email)
	broadcast.Publish(Channel, broadcast.Message{Event: "login", Payload: email})
	return nil
}

// Logout clears the credential and notifies subscribers.
func (m *Manager) Logout() error {
	if err := m.disk.Delete(tokenPath); err != nil {
		return fmt.Errorf("session: clear credential: %w", err)
	}
	if err := m.disk.Delete(emailPath); err != nil {
		return fmt.Errorf("session: clear email: %w", err)
	}

	m.mu.Lock()
	m.token, m.email = "", ""
	m.mu.Unlock()

	m.bus.Fire(EventLogout, nil)
	broadcast.Publish(Channel, broadcast.Message{Event: "logout"})
	return nil
}

// Refresh re-derives the signal from durable storage and fires the matching
// event if it flipped. Used when another context changed the credential.
func (m *Manager) Refresh() {
	token, email := m.readCredential()

	m.mu.Lock()
	was := m.token != ""
	m.token, m.email = token, email
	now := m.token != ""
	m.mu.Unlock()

	switch {
	case !was && now:
		m.bus.Fire(EventLogin, email)
	case was && !now:
		m.bus.Fire(EventLogout, nil)
	}
}

// Watch subscribes to cross-context session broadcasts until ctx is
// cancelled. A no-op when no broadcast backend is configured.
func (m *Manager) Watch(ctx context.Context) {
	broadcast.Subscribe(ctx, Channel, func(msg broadcast.Message) {
		logger.Debug("session: broadcast received", "event", msg.Event)
		m.Refresh()
	})
}

// ─── Credential claims ────────────────────────────────────────────────────────

// Claims is the subset of the credential's JWT payload the client displays.
// The signature is never verified here: validation is the backend's job, the
// client only reads identity hints.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Claims decodes the stored credential without verifying it.
func (m *Manager) Claims() (*Claims, error) {
	token := m.Token()
	if token == "" {
		return nil, fmt.Errorf("session: no credential stored")
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("session: decode credential: %w", err)
	}
	return claims, nil
}
