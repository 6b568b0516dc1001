package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/md-rashed-zaman/doctorbook/libs/config"
	"github.com/md-rashed-zaman/doctorbook/libs/db"
	"github.com/md-rashed-zaman/doctorbook/libs/mongox"
	"github.com/md-rashed-zaman/doctorbook/libs/redisx"
	"github.com/md-rashed-zaman/doctorbook/libs/runtime"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/storage"
	"github.com/redis/go-redis/v9"
)

type backend struct {
	kv     storage.KV
	checks []runtime.ReadyCheck
	rdb    *redis.Client
	close  func()
}

// openBackend selects the booking KV from STORAGE_BACKEND. A Redis client is
// opened whenever REDIS_URL is set so the rate limiter can share it.
func openBackend(ctx context.Context, logger *slog.Logger) (*backend, error) {
	var closers []func()
	b := &backend{}
	b.close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if redisURL := config.String("REDIS_URL", ""); redisURL != "" {
		rdb, err := redisx.Open(ctx, redisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		b.rdb = rdb
		closers = append(closers, func() { _ = rdb.Close() })
		b.checks = append(b.checks, runtime.ReadyCheck{Name: "redis", Check: redisx.ReadyCheck(rdb)})
	}

	kind := strings.ToLower(config.String("STORAGE_BACKEND", "file"))
	switch kind {
	case "memory":
		b.kv = storage.NewMemoryKV()
	case "file":
		kv, err := storage.NewFileKV(config.String("STORAGE_FILE", "data/bookings.json"))
		if err != nil {
			b.close()
			return nil, err
		}
		b.kv = kv
	case "redis":
		if b.rdb == nil {
			b.close()
			return nil, fmt.Errorf("STORAGE_BACKEND=redis requires REDIS_URL")
		}
		b.kv = storage.NewRedisKV(b.rdb, config.String("REDIS_KEY_PREFIX", storage.DefaultRedisPrefix))
	case "postgres":
		dbURL, err := config.RequiredString("DATABASE_URL")
		if err != nil {
			b.close()
			return nil, err
		}
		opts, err := dbOptionsFromEnv()
		if err != nil {
			b.close()
			return nil, err
		}
		pool, err := db.OpenWithOptions(ctx, dbURL, opts)
		if err != nil {
			b.close()
			return nil, fmt.Errorf("db: %w", err)
		}
		closers = append(closers, pool.Close)
		kv := storage.NewPostgresKV(pool)
		if err := kv.EnsureSchema(ctx); err != nil {
			b.close()
			return nil, fmt.Errorf("db schema: %w", err)
		}
		b.kv = kv
		b.checks = append(b.checks, runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)})
	case "mongo":
		uri, err := config.RequiredString("MONGO_URI")
		if err != nil {
			b.close()
			return nil, err
		}
		client, err := mongox.Open(ctx, uri)
		if err != nil {
			b.close()
			return nil, fmt.Errorf("mongo: %w", err)
		}
		closers = append(closers, func() { _ = client.Disconnect(context.Background()) })
		b.kv = storage.NewMongoKV(client.Database(config.String("MONGO_DATABASE", "doctorbook")), storage.DefaultMongoCollection)
		b.checks = append(b.checks, runtime.ReadyCheck{Name: "mongo", Check: mongox.ReadyCheck(client)})
	default:
		b.close()
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", kind)
	}

	logger.Info("booking storage ready", "backend", kind)
	return b, nil
}

// dbOptionsFromEnv reads pool tuning; unset values keep the pool defaults.
func dbOptionsFromEnv() (db.Options, error) {
	var opts db.Options
	maxConns, err := config.Int("DB_MAX_CONNS", 0)
	if err != nil {
		return opts, err
	}
	minConns, err := config.Int("DB_MIN_CONNS", 0)
	if err != nil {
		return opts, err
	}
	if maxConns < 0 || minConns < 0 {
		return opts, fmt.Errorf("DB_MAX_CONNS and DB_MIN_CONNS must not be negative")
	}
	if opts.MaxConnLifetime, err = config.Duration("DB_MAX_CONN_LIFETIME", 0); err != nil {
		return opts, err
	}
	if opts.MaxConnIdleTime, err = config.Duration("DB_MAX_CONN_IDLE_TIME", 0); err != nil {
		return opts, err
	}
	opts.MaxConns = int32(maxConns)
	opts.MinConns = int32(minConns)
	return opts, nil
}
