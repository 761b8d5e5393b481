package repository_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, namespace string) (port.KVStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store, err := repository.NewRedisStore(client, namespace)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func TestRedisStore(t *testing.T) {
	store, _ := setupTestRedis(t, "default")

	assertKVStoreContract(t, store)
}

func TestRedisStore_HashLayout(t *testing.T) {
	ctx := t.Context()
	store, mr := setupTestRedis(t, "alice")

	require.NoError(t, store.Put(ctx, map[string][]byte{
		"auth_token": []byte("abc"),
		"user_data":  []byte(`{"id":1}`),
	}))

	assert.Equal(t, "abc", mr.HGet("storefront:alice", "auth_token"))
	assert.Equal(t, `{"id":1}`, mr.HGet("storefront:alice", "user_data"))

	require.NoError(t, store.Delete(ctx, "auth_token", "user_data"))
	assert.False(t, mr.Exists("storefront:alice"))
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := setupTestRedis(t, "default")
	mr.Close()

	_, err := store.Get(t.Context(), "cart")
	require.ErrorContains(t, err, "redis hget failed")
	assert.NotErrorIs(t, err, port.ErrNotFound)
}

func TestNewRedisStore_Validation(t *testing.T) {
	_, err := repository.NewRedisStore(nil, "default")
	require.EqualError(t, err, "client is nil")
}
