package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/events"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/repository"
	apperrors "github.com/Kiruthika-Mahalingam/help-desk/pkg/util/errorutil"
)

// EmployeeDirectory resolves the person submitting a ticket.
type EmployeeDirectory interface {
	LookupEmployee(ctx context.Context, identifier string) (*domain.Employee, error)
}

// TicketService coordinates ticket workflows. It keeps no ticket state of its own:
// every call reads the collection through the repository.
type TicketService struct {
	tickets    repository.TicketRepository
	settings   repository.SettingsRepository
	directory  EmployeeDirectory
	dispatcher events.Dispatcher
	logger     *zap.Logger
	calendar   *BusinessCalendar
	agents     []string
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	SettingsRepo repository.SettingsRepository
	Directory    EmployeeDirectory
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// TicketOption customizes a TicketService.
type TicketOption func(*TicketService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TicketOption {
	return func(s *TicketService) { s.now = now }
}

// WithAgents sets the agents used by AutoAssign and TeamPerformance.
func WithAgents(agents []string) TicketOption {
	return func(s *TicketService) { s.agents = append([]string{}, agents...) }
}

// WithCalendar sets the business calendar used for response deadlines.
func WithCalendar(c *BusinessCalendar) TicketOption {
	return func(s *TicketService) { s.calendar = c }
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title         string
	Description   string
	Category      domain.TicketCategory
	Priority      domain.TicketPriority
	Urgency       domain.TicketUrgency
	EmployeeID    string
	EmployeeName  string
	EmployeeEmail string
	Department    string
	Location      string
	Phone         string
	Attachments   []string
}

// TicketSubmission is what an employee fills in; identity fields come from the directory.
type TicketSubmission struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
	Urgency     domain.TicketUrgency
	Location    string
	Phone       string
	Attachments []string
}

// TicketUpdate lists the fields Update may change. Nil fields are left alone.
// Unassign clears assigned_to and wins over AssignedTo.
type TicketUpdate struct {
	Status     *domain.TicketStatus
	AssignedTo *string
	Unassign   bool
	Resolution *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies, opts ...TicketOption) *TicketService {
	s := &TicketService{
		tickets:    deps.TicketRepo,
		settings:   deps.SettingsRepo,
		directory:  deps.Directory,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		calendar:   NewBusinessCalendar(9, 17, false),
		now:        time.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new Open ticket and returns it. An empty priority takes the configured
// default and an empty urgency becomes Medium.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	priority := input.Priority
	if priority == "" {
		settings, err := s.currentSettings(ctx)
		if err != nil {
			return nil, err
		}
		priority = settings.DefaultPriority
		if priority == "" {
			priority = domain.TicketPriorityMedium
		}
	}
	urgency := input.Urgency
	if urgency == "" {
		urgency = domain.TicketUrgencyMedium
	}

	var created domain.Ticket
	err := s.tickets.Mutate(ctx, func(tickets []domain.Ticket) ([]domain.Ticket, error) {
		now := s.timestamp()
		created = domain.Ticket{
			ID:            nextTicketID(tickets),
			Title:         input.Title,
			Description:   input.Description,
			Category:      input.Category,
			Priority:      priority,
			Urgency:       urgency,
			Status:        domain.TicketStatusOpen,
			EmployeeID:    input.EmployeeID,
			EmployeeName:  input.EmployeeName,
			EmployeeEmail: input.EmployeeEmail,
			Department:    input.Department,
			Location:      input.Location,
			Phone:         input.Phone,
			CreatedDate:   now,
			UpdatedDate:   now,
			Attachments:   append([]string{}, input.Attachments...),
			Comments:      []domain.Comment{},
		}
		return append(tickets, created), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket created", zap.String("ticket_id", created.ID), zap.String("employee_id", created.EmployeeID))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: created.ID,
		Actor:    created.EmployeeName,
		Payload: events.TicketCreatedPayload{
			Title:         created.Title,
			Category:      created.Category,
			Priority:      created.Priority,
			EmployeeID:    created.EmployeeID,
			EmployeeEmail: created.EmployeeEmail,
		},
	})
	return &created, nil
}

// Submit looks the employee up in the directory and creates a ticket on their behalf.
// Location and phone default to the directory record.
func (s *TicketService) Submit(ctx context.Context, identifier string, sub TicketSubmission) (*domain.Ticket, error) {
	if s.directory == nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("employee directory not configured"))
	}
	emp, err := s.directory.LookupEmployee(ctx, identifier)
	if err != nil {
		return nil, err
	}
	location := sub.Location
	if location == "" {
		location = emp.Location
	}
	phone := sub.Phone
	if phone == "" {
		phone = emp.Phone
	}
	return s.Create(ctx, TicketCreateInput{
		Title:         sub.Title,
		Description:   sub.Description,
		Category:      sub.Category,
		Priority:      sub.Priority,
		Urgency:       sub.Urgency,
		EmployeeID:    emp.ID,
		EmployeeName:  emp.Name,
		EmployeeEmail: emp.Email,
		Department:    emp.Department,
		Location:      location,
		Phone:         phone,
		Attachments:   sub.Attachments,
	})
}

// Get returns the ticket with id or an error wrapping ErrNotFound.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// List returns every ticket in insertion order.
func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

// ListByEmployee returns the tickets submitted by employeeID.
func (s *TicketService) ListByEmployee(ctx context.Context, employeeID string) ([]domain.Ticket, error) {
	return s.filter(ctx, func(t *domain.Ticket) bool { return t.EmployeeID == employeeID })
}

// ListRecent returns at most limit tickets, newest created first. Equal creation times keep
// insertion order.
func (s *TicketService) ListRecent(ctx context.Context, limit int) ([]domain.Ticket, error) {
	if limit <= 0 {
		return []domain.Ticket{}, nil
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].CreatedDate.After(tickets[j].CreatedDate.Time)
	})
	if len(tickets) > limit {
		tickets = tickets[:limit]
	}
	return tickets, nil
}

// Update applies the non-nil fields of upd and refreshes updated_date, even when nothing else changes.
func (s *TicketService) Update(ctx context.Context, id string, upd TicketUpdate) (*domain.Ticket, error) {
	before, after, err := s.mutateTicket(ctx, id, func(t *domain.Ticket, now domain.Timestamp) {
		if upd.Status != nil {
			t.Status = *upd.Status
		}
		switch {
		case upd.Unassign:
			t.AssignedTo = nil
		case upd.AssignedTo != nil:
			assignee := *upd.AssignedTo
			t.AssignedTo = &assignee
		}
		if upd.Resolution != nil {
			t.Resolution = *upd.Resolution
		}
	})
	if err != nil {
		return nil, err
	}
	s.publishChanges(ctx, before, after)
	return &after, nil
}

// AddComment appends comment to the ticket thread. A zero timestamp is set to now.
func (s *TicketService) AddComment(ctx context.Context, id string, comment domain.Comment) (*domain.Ticket, error) {
	_, after, err := s.mutateTicket(ctx, id, func(t *domain.Ticket, now domain.Timestamp) {
		if comment.Timestamp.IsZero() {
			comment.Timestamp = now
		}
		t.Comments = append(t.Comments, comment)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: id,
		Actor:    comment.Author,
		Payload: events.TicketCommentAddedPayload{
			Author:      comment.Author,
			BodyPreview: stringPreview(comment.Comment, 140),
		},
	})
	return &after, nil
}

// ListByStatus returns tickets whose status equals status.
func (s *TicketService) ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	return s.filter(ctx, func(t *domain.Ticket) bool { return t.Status == status })
}

// ListByPriority returns tickets whose priority equals priority.
func (s *TicketService) ListByPriority(ctx context.Context, priority domain.TicketPriority) ([]domain.Ticket, error) {
	return s.filter(ctx, func(t *domain.Ticket) bool { return t.Priority == priority })
}

// ListByCategory returns tickets filed under category.
func (s *TicketService) ListByCategory(ctx context.Context, category domain.TicketCategory) ([]domain.Ticket, error) {
	return s.filter(ctx, func(t *domain.Ticket) bool { return t.Category == category })
}

// ListByAssignee returns tickets assigned to exactly assignee.
func (s *TicketService) ListByAssignee(ctx context.Context, assignee string) ([]domain.Ticket, error) {
	return s.filter(ctx, func(t *domain.Ticket) bool { return t.AssignedTo != nil && *t.AssignedTo == assignee })
}

// ListUnassigned returns tickets with no assignee (null or empty).
func (s *TicketService) ListUnassigned(ctx context.Context) ([]domain.Ticket, error) {
	return s.filter(ctx, func(t *domain.Ticket) bool { return !t.IsAssigned() })
}

// Search matches query case-insensitively against title, description, employee name and category.
func (s *TicketService) Search(ctx context.Context, query string) ([]domain.Ticket, error) {
	q := strings.ToLower(query)
	return s.filter(ctx, func(t *domain.Ticket) bool {
		return strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) ||
			strings.Contains(strings.ToLower(t.EmployeeName), q) ||
			strings.Contains(strings.ToLower(string(t.Category)), q)
	})
}

// Close marks the ticket Closed with a resolution.
func (s *TicketService) Close(ctx context.Context, id, resolution string) (*domain.Ticket, error) {
	status := domain.TicketStatusClosed
	return s.Update(ctx, id, TicketUpdate{Status: &status, Resolution: &resolution})
}

// Reopen records the reason as a System comment, then sets the ticket Open and unassigned.
// The two steps are separate writes; if the second fails the comment stays.
func (s *TicketService) Reopen(ctx context.Context, id, reason string) (*domain.Ticket, error) {
	if _, err := s.AddComment(ctx, id, domain.Comment{
		Author:  "System",
		Comment: "Ticket reopened. Reason: " + reason,
	}); err != nil {
		return nil, err
	}
	status := domain.TicketStatusOpen
	return s.Update(ctx, id, TicketUpdate{Status: &status, Unassign: true})
}

// mutateTicket runs change on ticket id inside one repository cycle and refreshes updated_date.
func (s *TicketService) mutateTicket(ctx context.Context, id string, change func(*domain.Ticket, domain.Timestamp)) (before, after domain.Ticket, err error) {
	err = s.tickets.Mutate(ctx, func(tickets []domain.Ticket) ([]domain.Ticket, error) {
		idx := indexOf(tickets, id)
		if idx < 0 {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		before = tickets[idx].Clone()
		now := s.timestamp()
		change(&tickets[idx], now)
		tickets[idx].UpdatedDate = now
		after = tickets[idx].Clone()
		return tickets, nil
	})
	return before, after, err
}

func (s *TicketService) filter(ctx context.Context, keep func(*domain.Ticket) bool) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Ticket{}
	for i := range tickets {
		if keep(&tickets[i]) {
			out = append(out, tickets[i])
		}
	}
	return out, nil
}

func (s *TicketService) timestamp() domain.Timestamp {
	return domain.NewTimestamp(s.now())
}

func (s *TicketService) publishChanges(ctx context.Context, before, after domain.Ticket) {
	if before.Status != after.Status {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: after.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus:  before.Status,
				NewStatus:  after.Status,
				Resolution: after.Resolution,
			},
		})
	}
	if before.Assignee() != after.Assignee() {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: after.ID,
			Payload: events.TicketAssignedPayload{
				PreviousAssignee: before.Assignee(),
				Assignee:         after.Assignee(),
			},
		})
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// nextTicketID returns one more than the largest numeric id, zero-padded to four digits.
func nextTicketID(tickets []domain.Ticket) string {
	highest := 0
	for _, t := range tickets {
		if n, err := strconv.Atoi(t.ID); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%04d", highest+1)
}

func indexOf(tickets []domain.Ticket, id string) int {
	for i := range tickets {
		if tickets[i].ID == id {
			return i
		}
	}
	return -1
}

// currentSettings reads the stored settings, or the defaults when the service has no settings repository.
func (s *TicketService) currentSettings(ctx context.Context) (domain.Settings, error) {
	if s.settings == nil {
		return domain.DefaultSettings(), nil
	}
	return s.settings.Get(ctx)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
