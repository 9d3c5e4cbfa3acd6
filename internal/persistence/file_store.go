package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
)

// FileStore keeps the document in a single JSON file. Writes replace the file atomically.
type FileStore struct {
	path      string
	backupDir string
	now       func() time.Time
	logger    *zap.Logger
}

// FileStoreOption customizes a FileStore.
type FileStoreOption func(*FileStore)

// WithFileClock overrides the clock used to name backups.
func WithFileClock(now func() time.Time) FileStoreOption {
	return func(s *FileStore) { s.now = now }
}

// NewFileStore creates a store for path. Backups go to backupDir, or next to path when empty.
func NewFileStore(path, backupDir string, logger *zap.Logger, opts ...FileStoreOption) *FileStore {
	if backupDir == "" {
		backupDir = filepath.Dir(path)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &FileStore{path: path, backupDir: backupDir, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the data file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return DefaultDocument(), err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultDocument(), nil
	}
	if err != nil {
		return DefaultDocument(), fmt.Errorf("read %s: %w", s.path, err)
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return DefaultDocument(), fmt.Errorf("load %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := EncodeDocument(doc)
	if err != nil {
		return err
	}
	return writeFile(s.path, data)
}

// Backup copies the current document into the backup directory and returns the backup file name.
func (s *FileStore) Backup(ctx context.Context) (string, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	data, err := EncodeDocument(doc)
	if err != nil {
		return "", err
	}
	name := backupName(s.path, s.now())
	if err := writeFile(filepath.Join(s.backupDir, name), data); err != nil {
		return "", err
	}
	s.logger.Info("backup created", zap.String("backup", name))
	return name, nil
}

// Restore replaces the document with a backup. The current file is untouched on failure.
func (s *FileStore) Restore(ctx context.Context, name string) error {
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

func (s *FileStore) Statistics(ctx context.Context) (Statistics, error) {
	doc, err := s.Load(ctx)
	stats := Statistics{TotalTickets: len(doc.Tickets), Location: s.path}

	info, statErr := os.Stat(s.path)
	switch {
	case errors.Is(statErr, os.ErrNotExist):
	case statErr != nil:
		return stats, fmt.Errorf("stat %s: %w", s.path, statErr)
	default:
		stats.SizeBytes = info.Size()
		modified := domain.NewTimestamp(info.ModTime())
		stats.LastModified = &modified
	}
	return stats, err
}

// Clear writes an empty document with default settings.
func (s *FileStore) Clear(ctx context.Context) error {
	return s.Save(ctx, EmptyDocument())
}
