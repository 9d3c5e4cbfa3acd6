package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/events"
)

// OverdueTicket is an open ticket whose response deadline has passed.
type OverdueTicket struct {
	Ticket    domain.Ticket `json:"ticket"`
	Deadline  time.Time     `json:"deadline"`
	OverdueBy time.Duration `json:"overdue_by"`
}

// Overdue lists Open and In Progress tickets whose deadline (created_date plus
// max_response_time hours) is before now, earliest deadline first. It returns nothing
// when escalation is disabled in settings.
func (s *TicketService) Overdue(ctx context.Context, now time.Time) ([]OverdueTicket, error) {
	settings, err := s.currentSettings(ctx)
	if err != nil {
		return nil, err
	}
	out := []OverdueTicket{}
	if !settings.EscalationEnabled {
		return out, nil
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tickets {
		if t.Status != domain.TicketStatusOpen && t.Status != domain.TicketStatusInProgress {
			continue
		}
		deadline := s.calendar.Deadline(t.CreatedDate.Time, settings.MaxResponseTime, settings.BusinessHoursOnly)
		if deadline.Before(now) {
			out = append(out, OverdueTicket{Ticket: t, Deadline: deadline, OverdueBy: now.Sub(deadline)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	return out, nil
}

// Escalator publishes ticket_escalated once per overdue ticket.
type Escalator struct {
	tickets *TicketService
	logger  *zap.Logger

	mu       sync.Mutex
	notified map[string]time.Time
}

// NewEscalator creates an Escalator.
func NewEscalator(tickets *TicketService, logger *zap.Logger) *Escalator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Escalator{tickets: tickets, logger: logger, notified: map[string]time.Time{}}
}

// Sweep escalates tickets that became overdue since the previous sweep and returns how many.
// A ticket is escalated again only if its deadline moved, e.g. after being reopened.
// With business_hours_only set, sweeps outside working hours do nothing.
func (e *Escalator) Sweep(ctx context.Context) (int, error) {
	now := e.tickets.now()
	settings, err := e.tickets.currentSettings(ctx)
	if err != nil {
		return 0, err
	}
	if settings.BusinessHoursOnly && !e.tickets.calendar.IsWorkTime(now) {
		e.logger.Debug("escalation sweep skipped outside working hours", zap.Time("now", now))
		return 0, nil
	}

	overdue, err := e.tickets.Overdue(ctx, now)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current := make(map[string]time.Time, len(overdue))
	escalated := 0
	for _, o := range overdue {
		current[o.Ticket.ID] = o.Deadline
		if prev, ok := e.notified[o.Ticket.ID]; ok && prev.Equal(o.Deadline) {
			continue
		}
		escalated++
		e.logger.Warn("ticket overdue",
			zap.String("ticket_id", o.Ticket.ID),
			zap.String("priority", string(o.Ticket.Priority)),
			zap.Duration("overdue_by", o.OverdueBy))
		e.tickets.publishEvent(ctx, events.Event{
			Type:     events.EventTicketEscalated,
			TicketID: o.Ticket.ID,
			Actor:    "System",
			Payload: events.TicketEscalatedPayload{
				Priority: o.Ticket.Priority,
				Deadline: o.Deadline,
				Assignee: o.Ticket.Assignee(),
			},
		})
	}
	e.notified = current
	return escalated, nil
}
