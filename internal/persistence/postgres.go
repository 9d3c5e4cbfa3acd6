package persistence

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/config"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
)

// Postgres wraps access to a pgx connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres establishes a connection pool for cfg.DSN.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is empty")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &Postgres{Pool: pool}, nil
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// Ping verifies database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.Pool.Ping(ctx)
}

// postgresDataName names backups written from the database store.
const postgresDataName = "helpdesk_data.json"

// PostgresStore keeps the document as a single JSONB row in helpdesk_state.
type PostgresStore struct {
	pool      *pgxpool.Pool
	backupDir string
	now       func() time.Time
	logger    *zap.Logger
}

// NewPostgresStore builds a store on an open pool.
func NewPostgresStore(pool *pgxpool.Pool, backupDir string, logger *zap.Logger) *PostgresStore {
	if backupDir == "" {
		backupDir = "."
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{pool: pool, backupDir: backupDir, now: time.Now, logger: logger}
}

func (s *PostgresStore) Load(ctx context.Context) (*Document, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT document FROM helpdesk_state WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultDocument(), nil
	}
	if err != nil {
		return DefaultDocument(), fmt.Errorf("select document: %w", err)
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return DefaultDocument(), fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) Save(ctx context.Context, doc *Document) error {
	data, err := EncodeDocument(doc)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO helpdesk_state (id, document, updated_at)
		VALUES (1, $1::jsonb, NOW())
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`,
		string(data))
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) Backup(ctx context.Context) (string, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	data, err := EncodeDocument(doc)
	if err != nil {
		return "", err
	}
	name := backupName(postgresDataName, s.now())
	if err := writeFile(filepath.Join(s.backupDir, name), data); err != nil {
		return "", err
	}
	s.logger.Info("backup created", zap.String("backup", name))
	return name, nil
}

func (s *PostgresStore) Restore(ctx context.Context, name string) error {
	doc, err := readBackup(s.backupDir, name)
	if err != nil {
		return err
	}
	if err := s.Save(ctx, doc); err != nil {
		return err
	}
	s.logger.Info("backup restored", zap.String("backup", name))
	return nil
}

func (s *PostgresStore) Statistics(ctx context.Context) (Statistics, error) {
	stats := Statistics{Location: "postgres:helpdesk_state"}

	var (
		size      int64
		tickets   int
		updatedAt time.Time
	)
	err := s.pool.QueryRow(ctx, `
		SELECT octet_length(document::text), jsonb_array_length(document->'tickets'), updated_at
		FROM helpdesk_state WHERE id = 1`).Scan(&size, &tickets, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		stats.TotalTickets = len(DefaultDocument().Tickets)
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("document statistics: %w", err)
	}
	modified := domain.NewTimestamp(updatedAt)
	stats.TotalTickets = tickets
	stats.SizeBytes = size
	stats.LastModified = &modified
	return stats, nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	return s.Save(ctx, EmptyDocument())
}
