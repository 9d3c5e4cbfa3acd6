package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/directory"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/events"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/persistence"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/repository"
	apperrors "github.com/Kiruthika-Mahalingam/help-desk/pkg/util/errorutil"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 23, 10, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	svc   *TicketService
	store *persistence.FileStore
	repo  *repository.DocumentRepository
	clock *fakeClock
	rec   *recorder
}

func newFixture(t *testing.T, opts ...TicketOption) *fixture {
	t.Helper()
	dir := t.TempDir()
	store := persistence.NewFileStore(filepath.Join(dir, "helpdesk_data.json"), dir, nil)
	repo := repository.NewDocumentRepository(store, persistence.NewMutexLocker(), nil)
	clock := newFakeClock()
	rec := &recorder{}
	dispatcher := events.NewInMemoryDispatcher(nil, nil)
	for _, et := range []events.EventType{
		events.EventTicketCreated, events.EventTicketStatusChanged, events.EventTicketAssigned,
		events.EventTicketCommentAdded, events.EventTicketEscalated,
	} {
		dispatcher.Subscribe(et, rec.handle)
	}

	opts = append([]TicketOption{
		WithClock(clock.Now),
		WithAgents([]string{"John Smith (IT)", "Sarah Johnson (IT)", "Mike Wilson (IT)", "Lisa Brown (IT)"}),
	}, opts...)
	svc := NewTicketService(TicketDependencies{
		TicketRepo:   repo,
		SettingsRepo: repo,
		Directory:    directory.NewStatic(),
		Dispatcher:   dispatcher,
	}, opts...)
	return &fixture{svc: svc, store: store, repo: repo, clock: clock, rec: rec}
}

func ids(tickets []domain.Ticket) []string {
	out := make([]string, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ID)
	}
	return out
}

func sampleInput() TicketCreateInput {
	return TicketCreateInput{
		Title:         "Monitor flickers",
		Description:   "Second screen flickers after lunch.",
		Category:      domain.CategoryHardware,
		Priority:      domain.TicketPriorityLow,
		EmployeeID:    "EMP010",
		EmployeeName:  "Robert Chen",
		EmployeeEmail: "robert.chen@company.com",
		Department:    "Operations",
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, sampleInput())
	require.NoError(t, err)

	assert.Equal(t, "0006", created.ID)
	assert.Equal(t, domain.TicketStatusOpen, created.Status)
	assert.Equal(t, domain.TicketUrgencyMedium, created.Urgency)
	assert.Nil(t, created.AssignedTo)
	assert.Empty(t, created.Comments)
	assert.NotNil(t, created.Comments)
	assert.Empty(t, created.Resolution)
	assert.Equal(t, created.CreatedDate, created.UpdatedDate)
	assert.Equal(t, "2025-06-23 10:00:00", created.CreatedDate.String())

	got, err := f.svc.Get(ctx, "0006")
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.EmployeeEmail, got.EmployeeEmail)
	assert.Equal(t, created.CreatedDate.String(), got.CreatedDate.String())
	assert.Equal(t, []string{}, got.Attachments)
	assert.Equal(t, []events.EventType{events.EventTicketCreated}, f.rec.types())
}

func TestCreateUsesDefaultPriorityFromSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.repo.Update(ctx, func(s *domain.Settings) error {
		s.DefaultPriority = domain.TicketPriorityHigh
		return nil
	})
	require.NoError(t, err)

	in := sampleInput()
	in.Priority = ""
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHigh, created.Priority)
}

func TestCreateIDFollowsHighestExistingID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Mutate(ctx, func(tickets []domain.Ticket) ([]domain.Ticket, error) {
		return tickets[1:], nil
	}))

	created, err := f.svc.Create(ctx, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "0006", created.ID)
}

func TestSubmitCopiesDirectoryRecord(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Submit(context.Background(), "alice.brown@company.com", TicketSubmission{
		Title:       "Badge reader broken",
		Description: "Cannot enter floor 2",
		Category:    domain.CategorySecurity,
		Priority:    domain.TicketPriorityMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, "EMP004", created.EmployeeID)
	assert.Equal(t, "Alice Brown", created.EmployeeName)
	assert.Equal(t, "Human Resources", created.Department)
	assert.Equal(t, "Building B, Floor 2", created.Location)
	assert.Equal(t, "+1-555-0201", created.Phone)

	_, err = f.svc.Submit(context.Background(), "ghost", TicketSubmission{Title: "x"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetUnknownTicket(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), "4242")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateStatusRefreshesUpdatedDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, sampleInput())
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	closed := domain.TicketStatusClosed
	_, err = f.svc.Update(ctx, created.ID, TicketUpdate{Status: &closed})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, got.Status)
	assert.True(t, got.UpdatedDate.After(created.UpdatedDate.Time))
	assert.Contains(t, f.rec.types(), events.EventTicketStatusChanged)
}

func TestEmptyUpdateOnlyTouchesUpdatedDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before, err := f.svc.Get(ctx, "0002")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	after, err := f.svc.Update(ctx, "0002", TicketUpdate{})
	require.NoError(t, err)

	assert.NotEqual(t, before.UpdatedDate, after.UpdatedDate)
	after.UpdatedDate = before.UpdatedDate
	assert.Equal(t, *before, *after)
}

func TestUpdateAssignAndUnassign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	agent := "Lisa Brown (IT)"
	got, err := f.svc.Update(ctx, "0001", TicketUpdate{AssignedTo: &agent})
	require.NoError(t, err)
	assert.Equal(t, agent, got.Assignee())

	got, err = f.svc.Update(ctx, "0001", TicketUpdate{Unassign: true})
	require.NoError(t, err)
	assert.Nil(t, got.AssignedTo)

	assert.Equal(t, []events.EventType{events.EventTicketAssigned, events.EventTicketAssigned}, f.rec.types())
}

func TestUpdateUnknownTicketWritesNothing(t *testing.T) {
	f := newFixture(t)

	open := domain.TicketStatusOpen
	_, err := f.svc.Update(context.Background(), "9999", TicketUpdate{Status: &open})
	assert.True(t, apperrors.IsNotFound(err))

	_, statErr := os.Stat(f.store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestAddCommentAppendsInOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before, err := f.svc.Get(ctx, "0003")
	require.NoError(t, err)

	texts := []string{"first", "second", "third"}
	for _, text := range texts {
		f.clock.Advance(time.Second)
		_, err := f.svc.AddComment(ctx, "0003", domain.Comment{Author: "Sarah Johnson (IT)", Comment: text})
		require.NoError(t, err)
	}

	got, err := f.svc.Get(ctx, "0003")
	require.NoError(t, err)
	require.Len(t, got.Comments, len(before.Comments)+len(texts))
	assert.Equal(t, before.Comments, got.Comments[:len(before.Comments)])
	for i, text := range texts {
		c := got.Comments[len(before.Comments)+i]
		assert.Equal(t, text, c.Comment)
		assert.False(t, c.Timestamp.IsZero())
	}
	assert.Equal(t, f.clock.Now().Format(domain.TimestampLayout), got.UpdatedDate.String())
}

func TestAddCommentKeepsGivenTimestamp(t *testing.T) {
	f := newFixture(t)
	ts := domain.MustParseTimestamp("2025-06-22 08:00:00")

	got, err := f.svc.AddComment(context.Background(), "0001", domain.Comment{Author: "a", Comment: "b", Timestamp: ts})
	require.NoError(t, err)
	assert.Equal(t, ts, got.Comments[len(got.Comments)-1].Timestamp)
}

func TestListRecent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	recent, err := f.svc.ListRecent(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"0004", "0001", "0002"}, ids(recent))

	all, err := f.svc.ListRecent(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := f.svc.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() ([]domain.Ticket, error)
		want []string
	}{
		{"list", func() ([]domain.Ticket, error) { return f.svc.List(ctx) }, []string{"0001", "0002", "0003", "0004", "0005"}},
		{"employee", func() ([]domain.Ticket, error) { return f.svc.ListByEmployee(ctx, "EMP008") }, []string{"0004", "0005"}},
		{"status", func() ([]domain.Ticket, error) { return f.svc.ListByStatus(ctx, domain.TicketStatusOpen) }, []string{"0001", "0004"}},
		{"priority", func() ([]domain.Ticket, error) { return f.svc.ListByPriority(ctx, domain.TicketPriorityMedium) }, []string{"0002", "0003", "0004"}},
		{"category", func() ([]domain.Ticket, error) { return f.svc.ListByCategory(ctx, domain.CategoryPrinter) }, []string{"0003"}},
		{"assignee", func() ([]domain.Ticket, error) { return f.svc.ListByAssignee(ctx, "Mike Wilson (IT)") }, []string{"0005"}},
		{"unassigned", func() ([]domain.Ticket, error) { return f.svc.ListUnassigned(ctx) }, []string{"0001", "0004"}},
		{"search printer", func() ([]domain.Ticket, error) { return f.svc.Search(ctx, "printer") }, []string{"0003"}},
		{"search employee name", func() ([]domain.Ticket, error) { return f.svc.Search(ctx, "MICHAEL") }, []string{"0004", "0005"}},
		{"search category", func() ([]domain.Ticket, error) { return f.svc.Search(ctx, "network/") }, []string{"0004"}},
		{"search no match", func() ([]domain.Ticket, error) { return f.svc.Search(ctx, "kubernetes") }, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestEmptyAssigneeCountsAsUnassigned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	empty := ""
	_, err := f.svc.Update(ctx, "0002", TicketUpdate{AssignedTo: &empty})
	require.NoError(t, err)

	got, err := f.svc.ListUnassigned(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001", "0002", "0004"}, ids(got))
}

func TestCloseAndReopen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	closed, err := f.svc.Close(ctx, "0002", "Re-added account on device")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, closed.Status)
	assert.Equal(t, "Re-added account on device", closed.Resolution)

	f.clock.Advance(time.Minute)
	reopened, err := f.svc.Reopen(ctx, "0002", "still broken")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, reopened.Status)
	assert.Nil(t, reopened.AssignedTo)
	assert.Equal(t, "Re-added account on device", reopened.Resolution)

	last := reopened.Comments[len(reopened.Comments)-1]
	assert.Equal(t, "System", last.Author)
	assert.Equal(t, "Ticket reopened. Reason: still broken", last.Comment)

	_, err = f.svc.Reopen(ctx, "7777", "nope")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(ctx, sampleInput())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 25)
	seen := map[string]bool{}
	for _, id := range ids(all) {
		assert.False(t, seen[id], id)
		seen[id] = true
	}
}

func TestStringPreviewKeepsRunesWhole(t *testing.T) {
	body := strings.Repeat("é", 10)
	got := stringPreview(body, 6)
	assert.Equal(t, "ééé...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "ü中", stringPreview("ü中文", 2))
	assert.Equal(t, "short", stringPreview("  short  ", 140))
}
