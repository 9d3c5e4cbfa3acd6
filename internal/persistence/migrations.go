package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "0001_helpdesk_state",
		sql: `CREATE TABLE IF NOT EXISTS helpdesk_state (
			id         SMALLINT PRIMARY KEY CHECK (id = 1),
			document   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
}

// RunMigrations creates the tables used by PostgresStore. Every statement is idempotent.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}

	for _, m := range migrations {
		logger.Info("applying migration", zap.String("name", m.name))
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
	}

	logger.Info("migrations applied", zap.Int("count", len(migrations)))
	return nil
}
