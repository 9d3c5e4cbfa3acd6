package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/persistence"
	"github.com/Kiruthika-Mahalingam/help-desk/pkg/util/errorutil"
)

func newRepo(t *testing.T) (*DocumentRepository, *persistence.FileStore) {
	t.Helper()
	dir := t.TempDir()
	store := persistence.NewFileStore(filepath.Join(dir, "data.json"), dir, nil)
	return NewDocumentRepository(store, persistence.NewMutexLocker(), nil), store
}

func TestGetByID(t *testing.T) {
	repo, _ := newRepo(t)

	ticket, err := repo.GetByID(context.Background(), "0003")
	require.NoError(t, err)
	assert.Equal(t, "Printer offline in accounting department", ticket.Title)

	_, err = repo.GetByID(context.Background(), "9999")
	assert.True(t, errorutil.IsNotFound(err))
}

func TestMutateFailureWritesNothing(t *testing.T) {
	repo, store := newRepo(t)
	boom := errors.New("boom")

	err := repo.Mutate(context.Background(), func(tickets []domain.Ticket) ([]domain.Ticket, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestConcurrentMutationsAreNotLost(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	const writers = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Mutate(ctx, func(tickets []domain.Ticket) ([]domain.Ticket, error) {
				maxID := 0
				for _, tk := range tickets {
					if n, err := strconv.Atoi(tk.ID); err == nil && n > maxID {
						maxID = n
					}
				}
				now := domain.MustParseTimestamp("2025-07-01 12:00:00")
				return append(tickets, domain.Ticket{
					ID:          fmt.Sprintf("%04d", maxID+1),
					Title:       fmt.Sprintf("writer %d", i),
					Category:    domain.CategoryOther,
					Priority:    domain.TicketPriorityLow,
					Status:      domain.TicketStatusOpen,
					CreatedDate: now,
					UpdatedDate: now,
				}), nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 5+writers)

	seen := map[string]bool{}
	for _, tk := range tickets {
		assert.False(t, seen[tk.ID], "duplicate id %s", tk.ID)
		seen[tk.ID] = true
	}
}

func TestSettingsUpdatePersists(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	updated, err := repo.Update(ctx, func(s *domain.Settings) error {
		s.MaxResponseTime = 8
		s.NotificationSettings.SMSEnabled = true
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.MaxResponseTime)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tickets, 5)
}

func TestCorruptDocumentFallsBackToSampleData(t *testing.T) {
	repo, store := newRepo(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("garbage"), 0o644))

	tickets, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tickets, 5)
}

func TestRestoreWaitsForInFlightMutation(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Clear(ctx))
	name, err := repo.Backup(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Replace(ctx, persistence.DefaultDocument()))

	entered := make(chan struct{})
	release := make(chan struct{})
	mutated := make(chan error, 1)
	go func() {
		mutated <- repo.Mutate(ctx, func(tickets []domain.Ticket) ([]domain.Ticket, error) {
			close(entered)
			<-release
			return tickets, nil
		})
	}()
	<-entered

	restored := make(chan error, 1)
	go func() { restored <- repo.Restore(ctx, name) }()

	select {
	case err := <-restored:
		t.Fatalf("restore finished while a mutation held the document: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-mutated)
	require.NoError(t, <-restored)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Tickets)
}

func TestClearAndReplace(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Clear(ctx))
	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tickets)

	require.NoError(t, repo.Replace(ctx, persistence.DefaultDocument()))
	stats, err := repo.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalTickets)

	err = repo.Restore(ctx, "missing_backup.json")
	assert.True(t, errorutil.IsNotFound(err))
}
