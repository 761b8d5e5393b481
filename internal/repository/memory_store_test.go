package repository_test

import (
	"testing"

	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := repository.NewMemoryStore()
	defer store.Close()

	assertKVStoreContract(t, store)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemoryStore()

	value := []byte("cart")
	require.NoError(t, store.Put(ctx, map[string][]byte{"k": value}))
	value[0] = 'X'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	got[1] = 'Y'

	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("cart"), again)
}
