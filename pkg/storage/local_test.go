package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDiskRoundTrip(t *testing.T) {
	d := NewLocalDiskAt(t.TempDir())

	require.NoError(t, d.Put("cart/guest.json", []byte(`{"pizza":2}`)))
	assert.True(t, d.Exists("cart/guest.json"))
	assert.False(t, d.Missing("cart/guest.json"))

	raw, err := d.Get("cart/guest.json")
	require.NoError(t, err)
	assert.Equal(t, `{"pizza":2}`, string(raw))

	require.NoError(t, d.Delete("cart/guest.json"))
	assert.True(t, d.Missing("cart/guest.json"))
}

func TestLocalDiskDeleteMissingIsNoOp(t *testing.T) {
	d := NewLocalDiskAt(t.TempDir())
	assert.NoError(t, d.Delete("never/written.txt"))
}

func TestLocalDiskGetMissing(t *testing.T) {
	d := NewLocalDiskAt(t.TempDir())
	_, err := d.Get("nope.json")
	require.Error(t, err)
}

func TestLocalDiskFiles(t *testing.T) {
	d := NewLocalDiskAt(t.TempDir())
	require.NoError(t, d.Put("bills/a.txt", []byte("a")))
	require.NoError(t, d.Put("bills/b.txt", []byte("b")))
	require.NoError(t, d.Put("bills/sub/c.txt", []byte("c")))

	files, err := d.Files("bills")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bills/a.txt", "bills/b.txt"}, files)

	none, err := d.Files("empty")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestManagerRegisterAndUse(t *testing.T) {
	d := NewLocalDiskAt(t.TempDir())
	RegisterDisk("testdisk", d)
	assert.Equal(t, d, Use("testdisk"))
}
