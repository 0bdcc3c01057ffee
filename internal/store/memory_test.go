package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryCRUD(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Get(ctx, "b", "missing")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, m.Set(ctx, "b", "k", []byte("v1")))
	got, err := m.Get(ctx, "b", "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)

	// buckets are independent namespaces
	_, err = m.Get(ctx, "other", "k")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, m.Set(ctx, "b", "k", []byte("v2")))
	got, _ = m.Get(ctx, "b", "k")
	require.Equal(t, []byte("v2"), got)

	require.NoError(t, m.Delete(ctx, "b", "k"))
	_, err = m.Get(ctx, "b", "k")
	require.ErrorIs(t, err, ErrKeyNotFound)

	// deleting a missing key succeeds
	require.NoError(t, m.Delete(ctx, "b", "k"))
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "b", "k", []byte("abc")))

	got, err := m.Get(ctx, "b", "k")
	require.NoError(t, err)
	got[0] = 'x'

	again, err := m.Get(ctx, "b", "k")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), again)
}

func TestMemoryForEachAllowsReentrancy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "b", "k1", []byte("1")))
	require.NoError(t, m.Set(ctx, "b", "k2", []byte("2")))

	seen := map[string]string{}
	err := m.ForEach(ctx, "b", func(k string, v []byte) error {
		seen[k] = string(v)
		// mutating inside the callback must not deadlock
		return m.Set(ctx, "b", k, []byte("updated"))
	})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"k1": "1", "k2": "2"}, seen)
}
