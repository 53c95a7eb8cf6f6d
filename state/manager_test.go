package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"swapledger/storage"
)

type record struct {
	Name  string
	Count uint64
}

func TestKVRoundTrip(t *testing.T) {
	manager := NewManager(storage.NewMemDB())

	ok, err := manager.KVGet([]byte("missing"), nil)
	require.NoError(t, err)
	require.False(t, ok)

	stored := record{Name: "alpha", Count: 7}
	require.NoError(t, manager.KVPut([]byte("rec/alpha"), stored))

	var loaded record
	ok, err = manager.KVGet([]byte("rec/alpha"), &loaded)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, stored, loaded)

	has, err := manager.KVHas([]byte("rec/alpha"))
	require.NoError(t, err)
	require.True(t, has)

	has, err = manager.KVHas([]byte("rec/beta"))
	require.NoError(t, err)
	require.False(t, has)
}

func TestKVRejectsEmptyKey(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	require.Error(t, manager.KVPut(nil, record{}))
	_, err := manager.KVGet(nil, nil)
	require.Error(t, err)
	_, err = manager.KVHas(nil)
	require.Error(t, err)
}

func TestKVAppendDeduplicates(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	key := []byte("index/test")
	require.NoError(t, manager.KVAppend(key, []byte("one")))
	require.NoError(t, manager.KVAppend(key, []byte("two")))
	require.NoError(t, manager.KVAppend(key, []byte("one")))

	var list [][]byte
	require.NoError(t, manager.KVGetList(key, &list))
	require.Len(t, list, 2)
	require.Equal(t, []byte("one"), list[0])
	require.Equal(t, []byte("two"), list[1])
}

func TestKVGetListEmpty(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	var list [][]byte
	require.NoError(t, manager.KVGetList([]byte("index/none"), &list))
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestKVKeysAreIsolated(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	require.NoError(t, manager.KVPut([]byte("a"), record{Name: "a"}))
	require.NoError(t, manager.KVPut([]byte("b"), record{Name: "b"}))

	var loaded record
	ok, err := manager.KVGet([]byte("a"), &loaded)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", loaded.Name)
}
