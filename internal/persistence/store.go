package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/observability"
	"github.com/Kiruthika-Mahalingam/help-desk/pkg/util/errorutil"
)

// ErrCorruptDocument reports persisted data that cannot be parsed or fails schema validation.
var ErrCorruptDocument = errors.New("corrupt help desk document")

const (
	backupTimeLayout = "20060102_150405"
	filePerm         = 0o644
	dirPerm          = 0o755
)

// Store persists the help desk document.
//
// Load never returns a nil document. When nothing has been saved yet it returns
// DefaultDocument with a nil error; when saved data is unreadable it returns
// DefaultDocument together with an error wrapping ErrCorruptDocument.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
	Backup(ctx context.Context) (string, error)
	Restore(ctx context.Context, name string) error
	Statistics(ctx context.Context) (Statistics, error)
	Clear(ctx context.Context) error
}

// Statistics describes the persisted document.
type Statistics struct {
	TotalTickets int               `json:"total_tickets"`
	SizeBytes    int64             `json:"file_size"`
	LastModified *domain.Timestamp `json:"last_modified"`
	Location     string            `json:"location"`
}

// backupName builds "<base>_backup_<YYYYMMDD_HHMMSS><ext>" for a data file name.
func backupName(dataFile string, at time.Time) string {
	base := filepath.Base(dataFile)
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".json"
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_backup_%s%s", stem, at.Format(backupTimeLayout), ext)
}

// resolveBackup maps a bare file name onto dir; names with a directory part are used as given.
func resolveBackup(dir, name string) string {
	if filepath.Base(name) == name {
		return filepath.Join(dir, name)
	}
	return name
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(path, filePerm); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

// readBackup loads and validates a backup file without touching the live document.
func readBackup(dir, name string) (*Document, error) {
	path := resolveBackup(dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errorutil.NewNotFound("backup", map[string]any{"name": name})
	}
	if err != nil {
		return nil, fmt.Errorf("read backup %s: %w", path, err)
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("backup %s: %w", name, err)
	}
	return doc, nil
}

type instrumentedStore struct {
	next    Store
	metrics *observability.Metrics
}

// Instrument records a store metric for every call made through s.
func Instrument(s Store, metrics *observability.Metrics) Store {
	if metrics == nil {
		return s
	}
	return &instrumentedStore{next: s, metrics: metrics}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	s.metrics.RecordStoreOp(op, err, time.Since(start))
}

func (s *instrumentedStore) Load(ctx context.Context) (*Document, error) {
	start := time.Now()
	doc, err := s.next.Load(ctx)
	s.observe("load", start, err)
	return doc, err
}

func (s *instrumentedStore) Save(ctx context.Context, doc *Document) error {
	start := time.Now()
	err := s.next.Save(ctx, doc)
	s.observe("save", start, err)
	return err
}

func (s *instrumentedStore) Backup(ctx context.Context) (string, error) {
	start := time.Now()
	name, err := s.next.Backup(ctx)
	s.observe("backup", start, err)
	return name, err
}

func (s *instrumentedStore) Restore(ctx context.Context, name string) error {
	start := time.Now()
	err := s.next.Restore(ctx, name)
	s.observe("restore", start, err)
	return err
}

func (s *instrumentedStore) Statistics(ctx context.Context) (Statistics, error) {
	start := time.Now()
	stats, err := s.next.Statistics(ctx)
	s.observe("statistics", start, err)
	return stats, err
}

func (s *instrumentedStore) Clear(ctx context.Context) error {
	start := time.Now()
	err := s.next.Clear(ctx)
	s.observe("clear", start, err)
	return err
}
