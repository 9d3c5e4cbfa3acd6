package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/config"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/observability"
)

// Backend bundles the configured store, its lock and the connections behind them.
type Backend struct {
	Store    Store
	Locker   Locker
	Postgres *Postgres
	Redis    *Redis
}

// Open builds the store and locker selected by cfg.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) (*Backend, error) {
	b := &Backend{}

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.Postgres = pg
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.Pool, logger); err != nil {
				b.Close()
				return nil, err
			}
		}
		b.Store = NewPostgresStore(pg.Pool, cfg.Store.BackupDir, logger)
	default:
		b.Store = NewFileStore(cfg.Store.DataFile, cfg.Store.BackupDir, logger)
	}
	b.Store = Instrument(b.Store, metrics)

	switch cfg.Store.Lock {
	case config.LockRedis:
		r, err := NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Redis = r
		b.Locker = NewRedisLocker(r.Client, cfg.Store.LockTTL, logger)
	default:
		b.Locker = NewMutexLocker()
	}

	logger.Info("store ready",
		zap.String("driver", cfg.Store.Driver),
		zap.String("lock", cfg.Store.Lock),
	)
	return b, nil
}

// Checks returns readiness probes for the connections in use.
func (b *Backend) Checks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{}
	if b.Postgres != nil {
		checks["postgres"] = b.Postgres.Ping
	}
	if b.Redis != nil {
		checks["redis"] = b.Redis.Ping
	}
	return checks
}

// Close releases every connection.
func (b *Backend) Close() {
	b.Redis.Close()
	b.Postgres.Close()
}
