package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertKVStoreContract exercises the behaviour every durable store must share.
func assertKVStoreContract(t *testing.T, store port.KVStore) {
	t.Helper()
	ctx := t.Context()

	t.Run("get missing key: not found", func(t *testing.T) {
		_, err := store.Get(ctx, randomKey())
		require.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("put several keys: all readable", func(t *testing.T) {
		k1, k2 := randomKey(), randomKey()
		v1, v2 := []byte(gofakeit.UUID()), []byte(`{"id":1,"first_name":"Jane"}`)

		require.NoError(t, store.Put(ctx, map[string][]byte{k1: v1, k2: v2}))

		got1, err := store.Get(ctx, k1)
		require.NoError(t, err)
		assert.Equal(t, v1, got1)

		got2, err := store.Get(ctx, k2)
		require.NoError(t, err)
		assert.Equal(t, v2, got2)
	})

	t.Run("put existing key: overwritten", func(t *testing.T) {
		k := randomKey()
		require.NoError(t, store.Put(ctx, map[string][]byte{k: []byte("first")}))
		require.NoError(t, store.Put(ctx, map[string][]byte{k: []byte("second")}))

		got, err := store.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("delete one key: other kept", func(t *testing.T) {
		k1, k2 := randomKey(), randomKey()
		require.NoError(t, store.Put(ctx, map[string][]byte{k1: []byte("a"), k2: []byte("b")}))

		require.NoError(t, store.Delete(ctx, k1, randomKey()))

		_, err := store.Get(ctx, k1)
		require.ErrorIs(t, err, port.ErrNotFound)

		got, err := store.Get(ctx, k2)
		require.NoError(t, err)
		assert.Equal(t, []byte("b"), got)
	})

	t.Run("empty put and delete: no-op", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, map[string][]byte{}))
		require.NoError(t, store.Delete(ctx))
	})
}

func randomKey() string {
	return gofakeit.LetterN(12)
}
