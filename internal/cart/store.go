package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rsharma-dev/zaika/internal/session"
	"github.com/rsharma-dev/zaika/pkg/logger"
	"github.com/rsharma-dev/zaika/pkg/storage"
)

// guestPath is the durable local copy of the guest cart.
const guestPath = "cart/guest.json"

var (
	// ErrMergeInProgress rejects mutations that arrive while the
	// merge-on-login cycle is running, so they never apply against a stale
	// snapshot.
	ErrMergeInProgress = errors.New("cart: merge in progress")

	// ErrMergeFailed marks a merge whose push failed. Both the server
	// snapshot and the guest copy are left intact for a future retry.
	ErrMergeFailed = errors.New("cart: merge push failed, guest cart retained")

	// ErrProvisional marks an optimistic local update applied after a failed
	// remote mutation. The value is superseded by the next successful fetch.
	ErrProvisional = errors.New("cart: server unreachable, local view is provisional")
)

// Store keeps the authoritative cart representation and routes every mutation
// to the active persistence target. The mutex serializes overlapping
// mutations: a second mutation waits for the first's server round trip
// instead of racing it.
type Store struct {
	client *Client
	disk   storage.Disk
	sess   *session.Manager

	mu      sync.Mutex
	state   State
	merging bool
}

// NewStore builds a store in the state the session signal dictates and
// subscribes to its transitions. Call Bootstrap afterwards to run the initial
// fetch-or-merge cycle for an already-authenticated session.
func NewStore(sess *session.Manager, client *Client, disk storage.Disk) *Store {
	s := &Store{client: client, disk: disk, sess: sess}
	s.state = Guest{Items: s.loadGuest()}

	sess.Bus().Listen(session.EventLogin, func(interface{}) {
		if err := s.Reconcile(context.Background()); err != nil {
			logger.Warn("cart: merge-on-login", "error", err)
		}
	})
	sess.Bus().Listen(session.EventLogout, func(interface{}) {
		s.resetToGuest()
	})

	return s
}

// Bootstrap runs the initial reconcile when the session started out
// authenticated. A guest session needs nothing beyond NewStore.
func (s *Store) Bootstrap(ctx context.Context) error {
	if !s.sess.IsAuthenticated() {
		return nil
	}
	return s.Reconcile(ctx)
}

// Items returns a copy of the authoritative quantity map.
func (s *Store) Items() Quantities {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.items().Clone()
}

// IsRemote reports whether the server-persisted cart is authoritative.
func (s *Store) IsRemote() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.state.(Remote)
	return ok
}

// Snapshot returns the server snapshot when remote is authoritative.
func (s *Store) Snapshot() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.state.(Remote); ok {
		return r.Snapshot, true
	}
	return Snapshot{}, false
}

// AddQuantity increments the authoritative quantity for id by one.
//
// Remote: the backend computes the new count and its snapshot is adopted
// wholesale. If the call fails, a local optimistic increment keeps the view
// responsive; the returned error wraps ErrProvisional and the value stands
// only until the next successful server read.
//
// Guest: the durable local copy is written before the in-memory map changes,
// so a crash never observes a mismatch.
func (s *Store) AddQuantity(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.merging {
		return ErrMergeInProgress
	}

	switch st := s.state.(type) {
	case Guest:
		next := st.Items.Clone()
		next.Add(id)
		if err := s.persistGuest(next); err != nil {
			return err
		}
		s.state = Guest{Items: next}
		return nil

	case Remote:
		snap, err := s.client.AddItem(ctx, id)
		if err != nil {
			next := st.Snapshot.Items.Clone()
			next.Add(id)
			st.Snapshot.Items = next
			s.state = st
			return fmt.Errorf("%w: %w", ErrProvisional, err)
		}
		s.state = Remote{Snapshot: snap}
		return nil
	}
	return nil
}

// RemoveQuantity decrements the quantity for id by one, or deletes the entry
// entirely when completely is set or the count is at one. Absent ids no-op.
//
// Remote removal and clear are retried by the client because the backend's
// removal endpoint is idempotent; the in-place decrement goes through the
// bulk update, which is not, so it is sent exactly once and a failure leaves
// the last-known state untouched.
func (s *Store) RemoveQuantity(ctx context.Context, id string, completely bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.merging {
		return ErrMergeInProgress
	}

	switch st := s.state.(type) {
	case Guest:
		if _, ok := st.Items[id]; !ok {
			return nil
		}
		next := st.Items.Clone()
		next.Remove(id, completely)
		if err := s.persistGuest(next); err != nil {
			return err
		}
		s.state = Guest{Items: next}
		return nil

	case Remote:
		qty, ok := st.Snapshot.Items[id]
		if !ok {
			return nil
		}

		if completely || qty <= 1 {
			snap, err := s.client.RemoveItem(ctx, id)
			if err != nil {
				return err
			}
			s.state = Remote{Snapshot: snap}
			return nil
		}

		next := st.Snapshot.Items.Clone()
		next[id] = qty - 1
		snap, err := s.client.Update(ctx, next)
		if err != nil {
			return err
		}
		s.state = Remote{Snapshot: snap}
		return nil
	}
	return nil
}

// ClearCartItems empties the authoritative map. Remote: the backend clears
// and its (expected empty) snapshot is adopted. Guest: the in-memory map is
// emptied and the durable copy deleted.
func (s *Store) ClearCartItems(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.merging {
		return ErrMergeInProgress
	}

	switch s.state.(type) {
	case Guest:
		if err := s.disk.Delete(guestPath); err != nil {
			return err
		}
		s.state = Guest{Items: Quantities{}}
		return nil

	case Remote:
		snap, err := s.client.Clear(ctx)
		if err != nil {
			return err
		}
		s.state = Remote{Snapshot: snap}
		return nil
	}
	return nil
}

// ClearLocalCart clears only the local view, issuing no network call. Used
// when the backend has already cleared the cart as a side effect of payment
// verification, where a redundant clear request would race the verification
// response.
func (s *Store) ClearLocalCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch st := s.state.(type) {
	case Guest:
		_ = s.disk.Delete(guestPath)
		s.state = Guest{Items: Quantities{}}
	case Remote:
		st.Snapshot.Items = Quantities{}
		s.state = st
	}
}

// Refresh re-reads the server snapshot and adopts it wholesale: the last
// server version wins and supersedes any provisional optimistic values.
// A no-op for guests.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.merging {
		return ErrMergeInProgress
	}
	if _, ok := s.state.(Remote); !ok {
		return nil
	}

	snap, err := s.client.Fetch(ctx)
	if err != nil {
		return err
	}
	s.state = Remote{Snapshot: snap}
	return nil
}

// Reconcile runs the merge-on-login protocol: fetch the server cart, combine
// the guest's durable map into it additively, push the result and adopt the
// backend's snapshot. The guest copy is deleted only after the push succeeds;
// a failed merge leaves both copies intact for a future retry.
func (s *Store) Reconcile(ctx context.Context) error {
	s.mu.Lock()
	if s.merging {
		s.mu.Unlock()
		return ErrMergeInProgress
	}
	s.merging = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.merging = false
		s.mu.Unlock()
	}()

	serverSnap, err := s.client.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("cart: merge: fetch server cart: %w", err)
	}

	localMap := s.loadGuest()

	if localMap.IsEmpty() {
		s.adopt(serverSnap)
		_ = s.disk.Delete(guestPath)
		return nil
	}

	merged := Merge(serverSnap.Items, localMap)
	pushed, err := s.client.Update(ctx, merged)
	if err != nil {
		// The server cart stays visible; the guest copy must not be lost.
		s.adopt(serverSnap)
		return fmt.Errorf("%w: %w", ErrMergeFailed, err)
	}

	s.adopt(pushed)
	if err := s.disk.Delete(guestPath); err != nil {
		logger.Warn("cart: delete guest copy after merge", "error", err)
	}

	logger.Info("cart: merged guest cart into server cart",
		"guest_items", len(localMap), "merged_items", len(pushed.Items))
	return nil
}

func (s *Store) adopt(snap Snapshot) {
	s.mu.Lock()
	s.state = Remote{Snapshot: snap}
	s.mu.Unlock()
}

func (s *Store) resetToGuest() {
	s.mu.Lock()
	s.state = Guest{Items: s.loadGuest()}
	s.mu.Unlock()
}

// persistGuest writes the durable guest copy before the caller swaps the
// in-memory map. An emptied map deletes the file: absent equals empty.
func (s *Store) persistGuest(q Quantities) error {
	if q.IsEmpty() {
		if err := s.disk.Delete(guestPath); err != nil {
			return fmt.Errorf("cart: delete guest copy: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("cart: encode guest cart: %w", err)
	}
	if err := s.disk.Put(guestPath, raw); err != nil {
		return fmt.Errorf("cart: persist guest cart: %w", err)
	}
	return nil
}

func (s *Store) loadGuest() Quantities {
	raw, err := s.disk.Get(guestPath)
	if err != nil {
		return Quantities{}
	}
	var q Quantities
	if err := json.Unmarshal(raw, &q); err != nil {
		logger.Warn("cart: corrupt guest cart ignored", "error", err)
		return Quantities{}
	}
	for id, n := range q {
		if n <= 0 {
			delete(q, id)
		}
	}
	return q
}
