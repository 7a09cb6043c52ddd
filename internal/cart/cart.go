// Package cart implements the cart store: the quantity-per-item map, its dual
// persistence strategy (durable local file for guests, backend for logged-in
// users) and the merge protocol executed on login.
package cart

// Quantities maps a food id to a positive quantity. No key ever maps to zero
// or a negative count: removal deletes the key instead of storing zero.
type Quantities map[string]int

// Add increments the quantity for id by one, creating the entry if absent.
func (q Quantities) Add(id string) {
	q[id]++
}

// Remove decrements the quantity for id by one, deleting the key when
// completely is set or the count would drop below one. Absent ids are no-ops.
func (q Quantities) Remove(id string, completely bool) {
	n, ok := q[id]
	if !ok {
		return
	}
	if completely || n <= 1 {
		delete(q, id)
		return
	}
	q[id] = n - 1
}

// IsEmpty reports whether the map holds no items.
func (q Quantities) IsEmpty() bool { return len(q) == 0 }

// Count returns the total number of units across all items.
func (q Quantities) Count() int {
	total := 0
	for _, n := range q {
		total += n
	}
	return total
}

// Clone returns an independent copy.
func (q Quantities) Clone() Quantities {
	out := make(Quantities, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

// Merge combines a guest map into a server map additively: guest selections
// are added to, never replace, existing server-side selections. Neither input
// is modified; the result is independent of discovery order.
func Merge(server, local Quantities) Quantities {
	merged := server.Clone()
	for id, n := range local {
		merged[id] += n
	}
	return merged
}

// Snapshot is the server's view of a logged-in user's cart. The identifiers
// are assigned by the backend; the client never invents them.
type Snapshot struct {
	CartID  string     `json:"cartId"`
	OwnerID string     `json:"ownerId"`
	Items   Quantities `json:"items"`
}

// State is the tagged union of the two cart representations. Exactly one of
// them is authoritative at any instant, selected by the session signal.
type State interface {
	items() Quantities
}

// Guest is the local-only cart, valid while no authenticated session exists.
type Guest struct {
	Items Quantities
}

func (g Guest) items() Quantities { return g.Items }

// Remote is the server-persisted cart of an authenticated user.
type Remote struct {
	Snapshot Snapshot
}

func (r Remote) items() Quantities { return r.Snapshot.Items }
