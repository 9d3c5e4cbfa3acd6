package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	apperrors "github.com/Kiruthika-Mahalingam/help-desk/pkg/util/errorutil"
)

// Assignment records one ticket handed to an agent.
type Assignment struct {
	TicketID string `json:"ticket_id"`
	Assignee string `json:"assignee"`
}

// BulkAssign assigns every ticket in ids to assignee in a single write. Unknown ids are
// skipped; the updated tickets are returned in collection order.
func (s *TicketService) BulkAssign(ctx context.Context, ids []string, assignee string) ([]domain.Ticket, error) {
	if assignee == "" {
		return nil, apperrors.NewValidationError("assignee is required", nil)
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var befores, afters []domain.Ticket
	err := s.tickets.Mutate(ctx, func(tickets []domain.Ticket) ([]domain.Ticket, error) {
		now := s.timestamp()
		for i := range tickets {
			if _, ok := wanted[tickets[i].ID]; !ok {
				continue
			}
			befores = append(befores, tickets[i].Clone())
			name := assignee
			tickets[i].AssignedTo = &name
			tickets[i].UpdatedDate = now
			afters = append(afters, tickets[i].Clone())
		}
		return tickets, nil
	})
	if err != nil {
		return nil, err
	}
	for i := range afters {
		s.publishChanges(ctx, befores[i], afters[i])
	}
	if afters == nil {
		afters = []domain.Ticket{}
	}
	return afters, nil
}

// AutoAssign hands every unassigned Open ticket, oldest first, to the configured agent with
// the fewest active tickets. Ties go to the agent listed first.
func (s *TicketService) AutoAssign(ctx context.Context) ([]Assignment, error) {
	out := []Assignment{}
	if len(s.agents) == 0 {
		return out, nil
	}

	var befores, afters []domain.Ticket
	err := s.tickets.Mutate(ctx, func(tickets []domain.Ticket) ([]domain.Ticket, error) {
		load := make(map[string]int, len(s.agents))
		var pending []int
		for i := range tickets {
			t := &tickets[i]
			if t.IsAssigned() {
				if t.Status == domain.TicketStatusOpen || t.Status == domain.TicketStatusInProgress {
					load[*t.AssignedTo]++
				}
				continue
			}
			if t.Status == domain.TicketStatusOpen {
				pending = append(pending, i)
			}
		}
		if len(pending) == 0 {
			return nil, errNothingToAssign
		}
		sort.SliceStable(pending, func(a, b int) bool {
			return tickets[pending[a]].CreatedDate.Before(tickets[pending[b]].CreatedDate.Time)
		})

		now := s.timestamp()
		for _, idx := range pending {
			agent := s.leastLoaded(load)
			load[agent]++
			befores = append(befores, tickets[idx].Clone())
			tickets[idx].AssignedTo = &agent
			tickets[idx].UpdatedDate = now
			afters = append(afters, tickets[idx].Clone())
			out = append(out, Assignment{TicketID: tickets[idx].ID, Assignee: agent})
		}
		return tickets, nil
	})
	if errors.Is(err, errNothingToAssign) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range afters {
		s.publishChanges(ctx, befores[i], afters[i])
	}
	s.logger.Info("auto-assigned tickets", zap.Int("count", len(out)))
	return out, nil
}

func (s *TicketService) leastLoaded(load map[string]int) string {
	best := s.agents[0]
	for _, agent := range s.agents[1:] {
		if load[agent] < load[best] {
			best = agent
		}
	}
	return best
}

// errNothingToAssign aborts the AutoAssign cycle without a write.
var errNothingToAssign = apperrors.NewConflict("no unassigned open tickets", nil)
