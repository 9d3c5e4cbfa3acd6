package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/persistence"
	"github.com/Kiruthika-Mahalingam/help-desk/pkg/util/errorutil"
)

// MutateFunc receives the current tickets and returns the tickets to persist.
// Returning an error aborts the change and nothing is written.
type MutateFunc func(tickets []domain.Ticket) ([]domain.Ticket, error)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Mutate(ctx context.Context, fn MutateFunc) error
}

// SettingsRepository reads and writes the help desk settings stored next to the tickets.
type SettingsRepository interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, fn func(*domain.Settings) error) (domain.Settings, error)
}

// MaintenanceRepository replaces or snapshots the whole document. Writes share the
// lock used by ticket and settings changes.
type MaintenanceRepository interface {
	Backup(ctx context.Context) (string, error)
	Restore(ctx context.Context, name string) error
	Replace(ctx context.Context, doc *persistence.Document) error
	Clear(ctx context.Context) error
	Statistics(ctx context.Context) (persistence.Statistics, error)
}

// DocumentRepository implements TicketRepository, SettingsRepository and MaintenanceRepository on a persistence.Store.
// Every write runs load, change and save under the locker.
type DocumentRepository struct {
	store  persistence.Store
	locker persistence.Locker
	logger *zap.Logger
}

// NewDocumentRepository instantiates repository.
func NewDocumentRepository(store persistence.Store, locker persistence.Locker, logger *zap.Logger) *DocumentRepository {
	if locker == nil {
		locker = persistence.NewMutexLocker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentRepository{store: store, locker: locker, logger: logger}
}

// load reads the document. Unreadable data is replaced by the sample document with a warning.
func (r *DocumentRepository) load(ctx context.Context) (*persistence.Document, error) {
	doc, err := r.store.Load(ctx)
	if err == nil {
		return doc, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil || doc == nil {
		return nil, fmt.Errorf("load document: %w", errors.Join(err, ctxErr))
	}
	r.logger.Warn("stored document unreadable; falling back to sample data", zap.Error(err))
	return doc, nil
}

func (r *DocumentRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Tickets, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	tickets, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID == id {
			return &tickets[i], nil
		}
	}
	return nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": id})
}

func (r *DocumentRepository) Mutate(ctx context.Context, fn MutateFunc) error {
	return r.withDocument(ctx, func(doc *persistence.Document) error {
		tickets, err := fn(doc.Tickets)
		if err != nil {
			return err
		}
		doc.Tickets = tickets
		return nil
	})
}

func (r *DocumentRepository) Get(ctx context.Context) (domain.Settings, error) {
	doc, err := r.load(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	return doc.Settings, nil
}

func (r *DocumentRepository) Update(ctx context.Context, fn func(*domain.Settings) error) (domain.Settings, error) {
	var out domain.Settings
	err := r.withDocument(ctx, func(doc *persistence.Document) error {
		if err := fn(&doc.Settings); err != nil {
			return err
		}
		out = doc.Settings
		return nil
	})
	return out, err
}

// Backup snapshots the document under the lock.
func (r *DocumentRepository) Backup(ctx context.Context) (string, error) {
	var name string
	err := r.locked(ctx, func() error {
		var err error
		name, err = r.store.Backup(ctx)
		return err
	})
	return name, err
}

// Restore replaces the document with a named backup.
func (r *DocumentRepository) Restore(ctx context.Context, name string) error {
	return r.locked(ctx, func() error { return r.store.Restore(ctx, name) })
}

// Replace overwrites the document with doc.
func (r *DocumentRepository) Replace(ctx context.Context, doc *persistence.Document) error {
	return r.locked(ctx, func() error { return r.store.Save(ctx, doc) })
}

// Clear removes every ticket and resets the settings.
func (r *DocumentRepository) Clear(ctx context.Context) error {
	return r.locked(ctx, func() error { return r.store.Clear(ctx) })
}

func (r *DocumentRepository) Statistics(ctx context.Context) (persistence.Statistics, error) {
	return r.store.Statistics(ctx)
}

func (r *DocumentRepository) locked(ctx context.Context, fn func() error) error {
	unlock, err := r.locker.Lock(ctx)
	if err != nil {
		return fmt.Errorf("lock document: %w", err)
	}
	defer unlock()
	return fn()
}

func (r *DocumentRepository) withDocument(ctx context.Context, change func(*persistence.Document) error) error {
	return r.locked(ctx, func() error {
		doc, err := r.load(ctx)
		if err != nil {
			return err
		}
		if err := change(doc); err != nil {
			return err
		}
		if err := r.store.Save(ctx, doc); err != nil {
			return fmt.Errorf("save document: %w", err)
		}
		return nil
	})
}
