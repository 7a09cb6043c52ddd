package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsharma-dev/zaika/internal/session"
	zhttp "github.com/rsharma-dev/zaika/pkg/http"
	"github.com/rsharma-dev/zaika/pkg/storage"
	"github.com/rsharma-dev/zaika/pkg/testkit"
)

const apiCarts = "/api/v1/carts"

func newGuestStore(t *testing.T) (*Store, storage.Disk, *session.Manager) {
	t.Helper()
	disk := storage.NewLocalDiskAt(t.TempDir())
	sess := session.NewManager(disk)
	return NewStore(sess, NewClient(sess.Token), disk), disk, sess
}

// newRemoteStore seeds a credential before the manager reads it, so the store
// boots against the server cart served by the installed stubs.
func newRemoteStore(t *testing.T, disk storage.Disk) (*Store, *session.Manager) {
	t.Helper()
	require.NoError(t, disk.Put("auth/token", []byte("test-token")))
	require.NoError(t, disk.Put("auth/email", []byte("t@example.com")))
	sess := session.NewManager(disk)
	store := NewStore(sess, NewClient(sess.Token), disk)
	require.NoError(t, store.Bootstrap(context.Background()))
	return store, sess
}

func guestOnDisk(t *testing.T, disk storage.Disk) Quantities {
	t.Helper()
	raw, err := disk.Get(guestPath)
	require.NoError(t, err)
	var q Quantities
	require.NoError(t, json.Unmarshal(raw, &q))
	return q
}

func TestGuestAddPersistsBeforeSwap(t *testing.T) {
	store, disk, _ := newGuestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddQuantity(ctx, "pizza"))
	require.NoError(t, store.AddQuantity(ctx, "pizza"))
	require.NoError(t, store.AddQuantity(ctx, "salad"))

	assert.Equal(t, Quantities{"pizza": 2, "salad": 1}, store.Items())
	assert.Equal(t, Quantities{"pizza": 2, "salad": 1}, guestOnDisk(t, disk))

	// A fresh store over the same disk reloads the same cart.
	sess := session.NewManager(disk)
	reloaded := NewStore(sess, NewClient(sess.Token), disk)
	assert.Equal(t, Quantities{"pizza": 2, "salad": 1}, reloaded.Items())
}

func TestGuestEmptyCartDeletesDurableCopy(t *testing.T) {
	store, disk, _ := newGuestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddQuantity(ctx, "pizza"))
	require.NoError(t, store.RemoveQuantity(ctx, "pizza", false))

	assert.True(t, store.Items().IsEmpty())
	assert.True(t, disk.Missing(guestPath))
}

func TestGuestCorruptDurableCopyIgnored(t *testing.T) {
	disk := storage.NewLocalDiskAt(t.TempDir())
	require.NoError(t, disk.Put(guestPath, []byte("{not json")))

	sess := session.NewManager(disk)
	store := NewStore(sess, NewClient(sess.Token), disk)
	assert.True(t, store.Items().IsEmpty())
}

func TestGuestNonPositiveEntriesSanitized(t *testing.T) {
	disk := storage.NewLocalDiskAt(t.TempDir())
	require.NoError(t, disk.Put(guestPath, []byte(`{"pizza":2,"salad":0,"soup":-3}`)))

	sess := session.NewManager(disk)
	store := NewStore(sess, NewClient(sess.Token), disk)
	assert.Equal(t, Quantities{"pizza": 2}, store.Items())
}

func TestMergeOnLogin(t *testing.T) {
	store, disk, sess := newGuestStore(t)
	ctx := context.Background()
	require.NoError(t, store.AddQuantity(ctx, "pizza"))
	require.NoError(t, store.AddQuantity(ctx, "pizza"))

	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "GET", Path: apiCarts, Body: Snapshot{
			CartID: "c1", OwnerID: "u1", Items: Quantities{"pizza": 1, "salad": 1},
		}},
		&testkit.Stub{Method: "PUT", Path: apiCarts, Body: Snapshot{
			CartID: "c1", OwnerID: "u1", Items: Quantities{"pizza": 3, "salad": 1},
		}},
	)
	defer mt.Install()()

	require.NoError(t, sess.Login("test-token", "t@example.com"))

	assert.True(t, store.IsRemote())
	assert.Equal(t, Quantities{"pizza": 3, "salad": 1}, store.Items())

	// The push carried the additively merged map.
	var pushed updateRequest
	require.NoError(t, json.Unmarshal(mt.LastBody("PUT", apiCarts), &pushed))
	assert.Equal(t, Quantities{"pizza": 3, "salad": 1}, pushed.Items)

	// The guest copy is gone only after the push succeeded.
	assert.True(t, disk.Missing(guestPath))
	mt.AssertAllCalled(t)
}

func TestMergeWithEmptyGuestCartSkipsPush(t *testing.T) {
	store, _, sess := newGuestStore(t)

	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "GET", Path: apiCarts, Body: Snapshot{
			CartID: "c1", Items: Quantities{"salad": 2},
		}},
	)
	defer mt.Install()()

	require.NoError(t, sess.Login("test-token", "t@example.com"))

	assert.True(t, store.IsRemote())
	assert.Equal(t, Quantities{"salad": 2}, store.Items())
	mt.AssertAllCalled(t)
}

func TestFailedMergeKeepsBothCopies(t *testing.T) {
	store, disk, sess := newGuestStore(t)
	ctx := context.Background()
	require.NoError(t, store.AddQuantity(ctx, "pizza"))
	require.NoError(t, store.AddQuantity(ctx, "pizza"))

	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "GET", Path: apiCarts, Body: Snapshot{
			CartID: "c1", Items: Quantities{"salad": 1},
		}},
		&testkit.Stub{Method: "PUT", Path: apiCarts, Err: errNetwork},
	)
	restore := mt.Install()

	require.NoError(t, sess.Login("test-token", "t@example.com"))

	// The server cart became visible, the guest copy survived, and the
	// non-idempotent push was attempted exactly once.
	assert.True(t, store.IsRemote())
	assert.Equal(t, Quantities{"salad": 1}, store.Items())
	assert.Equal(t, Quantities{"pizza": 2}, guestOnDisk(t, disk))
	assert.Equal(t, 1, mt.Calls("PUT", apiCarts))
	restore()

	// A later reconcile completes the merge and consumes the guest copy.
	mt = testkit.NewMockTransport(
		&testkit.Stub{Method: "GET", Path: apiCarts, Body: Snapshot{
			CartID: "c1", Items: Quantities{"salad": 1},
		}},
		&testkit.Stub{Method: "PUT", Path: apiCarts, Body: Snapshot{
			CartID: "c1", Items: Quantities{"pizza": 2, "salad": 1},
		}},
	)
	defer mt.Install()()

	require.NoError(t, store.Reconcile(ctx))
	assert.Equal(t, Quantities{"pizza": 2, "salad": 1}, store.Items())
	assert.True(t, disk.Missing(guestPath))
	mt.AssertAllCalled(t)
}

func TestRemoteAddAdoptsServerCount(t *testing.T) {
	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "GET", Path: apiCarts, Body: Snapshot{
			CartID: "c1", Items: Quantities{"pizza": 1},
		}},
		// The server's count wins even when it disagrees with a local +1.
		&testkit.Stub{Method: "POST", Path: apiCarts + "/items/pizza", Body: Snapshot{
			CartID: "c1", Items: Quantities{"pizza": 5},
		}},
	)
	defer mt.Install()()

	store, _ := newRemoteStore(t, storage.NewLocalDiskAt(t.TempDir()))

	require.NoError(t, store.AddQuantity(context.Background(), "pizza"))
	assert.Equal(t, Quantities{"pizza": 5}, store.Items())
	mt.AssertAllCalled(t)
}

func TestRemoteAddFailureIsProvisionalUntilRefresh(t *testing.T) {
	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "GET", Path: apiCarts, Body: Snapshot{
			CartID: "c1", Items: Quantities{"pizza": 1},
		}},
		&testkit.Stub{Method: "POST", Path: apiCarts + "/items/pizza", Err: errNetwork},
	)
	defer mt.Install()()

	store, _ := newRemoteStore(t, storage.NewLocalDiskAt(t.TempDir()))
	ctx := context.Background()

	err := store.AddQuantity(ctx, "pizza")
	require.ErrorIs(t, err, ErrProvisional)
	assert.Equal(t, Quantities{"pizza": 2}, store.Items())

	// The last server version wins over the optimistic value.
	require.NoError(t, store.Refresh(ctx))
	assert.Equal(t, Quantities{"pizza": 1}, store.Items())
}

func TestRemoteRemoveCompletelyUsesRemovalEndpoint(t *testing.T) {
	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "GET", Path: apiCarts, Body: Snapshot{
			CartID: "c1", Items: Quantities{"pizza": 3},
		}},
		&testkit.Stub{Method: "DELETE", Path: apiCarts + "/items/pizza", Body: Snapshot{
			CartID: "c1", Items: Quantities{},
		}},
	)
	defer mt.Install()()

	store, _ := newRemoteStore(t, storage.NewLocalDiskAt(t.TempDir()))

	require.NoError(t, store.RemoveQuantity(context.Background(), "pizza", true))
	assert.True(t, store.Items().IsEmpty())
	mt.AssertAllCalled(t)
}

func TestRemoteDecrementGoesThroughBulkUpdateOnce(t *testing.T) {
	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "GET", Path: apiCarts, Body: Snapshot{
			CartID: "c1", Items: Quantities{"pizza": 3},
		}},
		&testkit.Stub{Method: "PUT", Path: apiCarts, Err: errNetwork},
	)
	defer mt.Install()()

	store, _ := newRemoteStore(t, storage.NewLocalDiskAt(t.TempDir()))

	err := store.RemoveQuantity(context.Background(), "pizza", false)
	require.Error(t, err)

	// Sent exactly once, and the last-known state is untouched.
	assert.Equal(t, 1, mt.Calls("PUT", apiCarts))
	assert.Equal(t, Quantities{"pizza": 3}, store.Items())
}

func TestRemoteRemoveAbsentIDIsNoOp(t *testing.T) {
	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "GET", Path: apiCarts, Body: Snapshot{
			CartID: "c1", Items: Quantities{"pizza": 1},
		}},
	)
	defer mt.Install()()

	store, _ := newRemoteStore(t, storage.NewLocalDiskAt(t.TempDir()))

	require.NoError(t, store.RemoveQuantity(context.Background(), "ghost", false))
	assert.Equal(t, Quantities{"pizza": 1}, store.Items())
	mt.AssertAllCalled(t)
}

func TestClearLocalCartIssuesNoNetworkCall(t *testing.T) {
	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "GET", Path: apiCarts, Body: Snapshot{
			CartID: "c1", Items: Quantities{"pizza": 2},
		}},
	)
	defer mt.Install()()

	store, _ := newRemoteStore(t, storage.NewLocalDiskAt(t.TempDir()))

	store.ClearLocalCart()
	assert.True(t, store.Items().IsEmpty())
	assert.True(t, store.IsRemote())

	// AssertAllCalled flags any call beyond the bootstrap fetch.
	mt.AssertAllCalled(t)
}

func TestLogoutFallsBackToGuestCart(t *testing.T) {
	disk := storage.NewLocalDiskAt(t.TempDir())
	mt := testkit.NewMockTransport(
		&testkit.Stub{Method: "GET", Path: apiCarts, Body: Snapshot{
			CartID: "c1", Items: Quantities{"pizza": 2},
		}},
	)
	defer mt.Install()()

	store, sess := newRemoteStore(t, disk)
	require.NoError(t, sess.Logout())

	assert.False(t, store.IsRemote())
	assert.True(t, store.Items().IsEmpty())
}

func TestMutationDuringMergeRejected(t *testing.T) {
	disk := storage.NewLocalDiskAt(t.TempDir())
	require.NoError(t, disk.Put("auth/token", []byte("test-token")))
	sess := session.NewManager(disk)
	store := NewStore(sess, NewClient(sess.Token), disk)

	entered := make(chan struct{})
	release := make(chan struct{})
	zhttp.DefaultClient.Transport = &gateTransport{
		entered: entered,
		release: release,
		inner: testkit.NewMockTransport(
			&testkit.Stub{Method: "GET", Path: apiCarts, Body: Snapshot{
				CartID: "c1", Items: Quantities{},
			}},
		),
	}
	defer zhttp.ResetTransport()

	done := make(chan error, 1)
	go func() { done <- store.Reconcile(context.Background()) }()

	<-entered
	assert.ErrorIs(t, store.AddQuantity(context.Background(), "pizza"), ErrMergeInProgress)
	assert.ErrorIs(t, store.RemoveQuantity(context.Background(), "pizza", false), ErrMergeInProgress)
	assert.ErrorIs(t, store.ClearCartItems(context.Background()), ErrMergeInProgress)
	assert.ErrorIs(t, store.Reconcile(context.Background()), ErrMergeInProgress)

	close(release)
	require.NoError(t, <-done)
}

// gateTransport signals when the first request arrives and holds every
// request until released, so tests can observe the in-progress window.
type gateTransport struct {
	entered chan struct{}
	release chan struct{}
	inner   http.RoundTripper

	signalled bool
}

func (g *gateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !g.signalled {
		g.signalled = true
		close(g.entered)
	}
	<-g.release
	return g.inner.RoundTrip(req)
}

// errNetwork stands in for a transport-level failure.
var errNetwork = errors.New("connection refused")
