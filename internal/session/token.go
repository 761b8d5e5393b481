package session

import (
	"context"

	"github.com/nikolayk812/storefront/internal/port"
)

type tokenSource struct {
	kv port.KVStore
}

// NewTokenSource reads the credential straight from storage, so the API client
// always sends whatever token the session store last persisted.
func NewTokenSource(kv port.KVStore) port.TokenSource {
	return tokenSource{kv: kv}
}

func (t tokenSource) Token(ctx context.Context) (string, bool) {
	return readToken(ctx, t.kv)
}

func readToken(ctx context.Context, kv port.KVStore) (string, bool) {
	raw, err := kv.Get(ctx, tokenKey)
	if err != nil || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}
