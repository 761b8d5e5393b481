package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/port"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	getEntrySQL = `SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2`

	upsertEntrySQL = `
INSERT INTO kv_entries (namespace, key, value, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	deleteEntriesSQL = `DELETE FROM kv_entries WHERE namespace = $1 AND key = ANY($2)`
)

type postgresStore struct {
	q         querier
	pool      *pgxpool.Pool
	namespace string
}

func NewPostgresStore(pool *pgxpool.Pool, namespace string) (port.KVStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if namespace == "" {
		return nil, fmt.Errorf("namespace is empty")
	}

	return &postgresStore{
		q:         pool,
		pool:      pool,
		namespace: namespace,
	}, nil
}

func NewPostgresStoreWithTx(tx pgx.Tx, namespace string) (port.KVStore, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace is empty")
	}

	return &postgresStore{
		q:         tx,
		pool:      nil, // use provided transaction instead
		namespace: namespace,
	}, nil
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.q.QueryRow(ctx, getEntrySQL, s.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("q.QueryRow: %w", err)
	}

	return value, nil
}

func (s *postgresStore) Put(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}

	_, err := withTx(ctx, s.pool, s.q, func(q querier) (struct{}, error) {
		for k, v := range entries {
			if _, err := q.Exec(ctx, upsertEntrySQL, s.namespace, k, v); err != nil {
				return struct{}{}, fmt.Errorf("q.Exec[%s]: %w", k, err)
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (s *postgresStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if _, err := s.q.Exec(ctx, deleteEntriesSQL, s.namespace, keys); err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}
	return nil
}

func (s *postgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// MigratePostgres applies the embedded schema migrations. connStr must be a postgres:// URL.
func MigratePostgres(connStr string) (err error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("iofs.New: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, pgx5URL(connStr))
	if err != nil {
		return fmt.Errorf("migrate.NewWithSourceInstance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if closeErr := errors.Join(srcErr, dbErr); closeErr != nil && err == nil {
			err = fmt.Errorf("m.Close: %w", closeErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("m.Up: %w", err)
	}

	return nil
}

func pgx5URL(connStr string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(connStr, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return connStr
}
