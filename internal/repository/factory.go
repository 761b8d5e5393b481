package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/redis/go-redis/v9"
)

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Driver    string
	Namespace string

	Dir string

	RedisAddr     string
	RedisPassword string

	PostgresDSN string

	MongoURI string
	MongoDB  string
}

// Open builds the durable store selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (port.KVStore, error) {
	switch cfg.Driver {
	case DriverFile, "":
		return NewFileStore(cfg.Dir, cfg.Namespace)

	case DriverMemory:
		return NewMemoryStore(), nil

	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		store, err := NewRedisStore(client, cfg.Namespace)
		if err != nil {
			client.Close()
			return nil, err
		}
		return store, nil

	case DriverPostgres:
		if err := MigratePostgres(cfg.PostgresDSN); err != nil {
			return nil, fmt.Errorf("MigratePostgres: %w", err)
		}
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		store, err := NewPostgresStore(pool, cfg.Namespace)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil

	case DriverMongo:
		db, err := ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("ConnectMongoDB: %w", err)
		}
		store, err := NewMongoStore(db, cfg.Namespace)
		if err != nil {
			db.Client().Disconnect(context.WithoutCancel(ctx))
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
