package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	apperrors "github.com/Kiruthika-Mahalingam/help-desk/pkg/util/errorutil"
)

// TicketStatistics tallies tickets by status, priority, category and department.
type TicketStatistics struct {
	Total          int            `json:"total"`
	Open           int            `json:"open"`
	InProgress     int            `json:"in_progress"`
	Resolved       int            `json:"resolved"`
	Closed         int            `json:"closed"`
	HighPriority   int            `json:"high_priority"`
	MediumPriority int            `json:"medium_priority"`
	LowPriority    int            `json:"low_priority"`
	Unassigned     int            `json:"unassigned"`
	ByCategory     map[string]int `json:"by_category"`
	ByDepartment   map[string]int `json:"by_department"`
}

// AgentPerformance summarizes one assignee's workload.
type AgentPerformance struct {
	Agent            string `json:"agent"`
	Total            int    `json:"total"`
	Open             int    `json:"open"`
	InProgress       int    `json:"in_progress"`
	Resolved         int    `json:"resolved"`
	Closed           int    `json:"closed"`
	ResolvedThisWeek int    `json:"resolved_this_week"`
}

// DailyTrend counts tickets created on one calendar day and how many of those are done.
type DailyTrend struct {
	Date     string `json:"date"`
	Created  int    `json:"created"`
	Resolved int    `json:"resolved"`
}

// ReportRequest narrows the tickets included in a report. Zero values match everything.
type ReportRequest struct {
	From       *time.Time              `json:"from,omitempty"`
	To         *time.Time              `json:"to,omitempty"`
	Statuses   []domain.TicketStatus   `json:"statuses,omitempty"`
	Priorities []domain.TicketPriority `json:"priorities,omitempty"`
	Department string                  `json:"department,omitempty"`
}

// Report is a filtered ticket listing with its summary.
type Report struct {
	GeneratedAt domain.Timestamp `json:"generated_at"`
	Filters     ReportRequest    `json:"filters"`
	Summary     TicketStatistics `json:"summary"`
	Tickets     []domain.Ticket  `json:"tickets"`
}

// Statistics counts every ticket.
func (s *TicketService) Statistics(ctx context.Context) (TicketStatistics, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return TicketStatistics{}, err
	}
	return tally(tickets), nil
}

// StatisticsSince counts tickets created at or after since.
func (s *TicketService) StatisticsSince(ctx context.Context, since time.Time) (TicketStatistics, error) {
	tickets, err := s.filter(ctx, func(t *domain.Ticket) bool { return !t.CreatedDate.Before(since) })
	if err != nil {
		return TicketStatistics{}, err
	}
	return tally(tickets), nil
}

// ParseTimeframe converts "7d", "30d", "90d" or "all" to a lookback window. "all" and ""
// return zero, meaning no limit.
func ParseTimeframe(value string) (time.Duration, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return 0, nil
	case "7d":
		return 7 * 24 * time.Hour, nil
	case "30d":
		return 30 * 24 * time.Hour, nil
	case "90d":
		return 90 * 24 * time.Hour, nil
	}
	return 0, apperrors.NewValidationError("unsupported timeframe", map[string]any{
		"timeframe": value,
		"allowed":   []string{"7d", "30d", "90d", "all"},
	})
}

// StatisticsFor applies a timeframe from ParseTimeframe.
func (s *TicketService) StatisticsFor(ctx context.Context, window time.Duration) (TicketStatistics, error) {
	if window <= 0 {
		return s.Statistics(ctx)
	}
	return s.StatisticsSince(ctx, s.now().Add(-window))
}

// TeamPerformance reports per-assignee counts, busiest first. Configured agents without
// tickets are listed with zeros.
func (s *TicketService) TeamPerformance(ctx context.Context) ([]AgentPerformance, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	weekAgo := s.now().Add(-7 * 24 * time.Hour)

	byAgent := map[string]*AgentPerformance{}
	for _, agent := range s.agents {
		byAgent[agent] = &AgentPerformance{Agent: agent}
	}
	for _, t := range tickets {
		if !t.IsAssigned() {
			continue
		}
		p, ok := byAgent[*t.AssignedTo]
		if !ok {
			p = &AgentPerformance{Agent: *t.AssignedTo}
			byAgent[*t.AssignedTo] = p
		}
		p.Total++
		switch t.Status {
		case domain.TicketStatusOpen:
			p.Open++
		case domain.TicketStatusInProgress:
			p.InProgress++
		case domain.TicketStatusResolved:
			p.Resolved++
		case domain.TicketStatusClosed:
			p.Closed++
		}
		if isDone(t.Status) && !t.UpdatedDate.Before(weekAgo) {
			p.ResolvedThisWeek++
		}
	}

	out := make([]AgentPerformance, 0, len(byAgent))
	for _, p := range byAgent {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Agent < out[j].Agent
	})
	return out, nil
}

// Trends returns one entry per day for the last days days, oldest first, including days
// without tickets. days <= 0 covers every day that has a ticket.
func (s *TicketService) Trends(ctx context.Context, days int) ([]DailyTrend, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}

	const layout = "2006-01-02"
	counts := map[string]*DailyTrend{}
	var order []string
	add := func(day string) *DailyTrend {
		if d, ok := counts[day]; ok {
			return d
		}
		d := &DailyTrend{Date: day}
		counts[day] = d
		order = append(order, day)
		return d
	}

	if days > 0 {
		now := s.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		for i := days - 1; i >= 0; i-- {
			add(today.AddDate(0, 0, -i).Format(layout))
		}
		for _, t := range tickets {
			if d, ok := counts[t.CreatedDate.Format(layout)]; ok {
				d.Created++
				if isDone(t.Status) {
					d.Resolved++
				}
			}
		}
		return derefTrends(counts, order), nil
	}

	for _, t := range tickets {
		d := add(t.CreatedDate.Format(layout))
		d.Created++
		if isDone(t.Status) {
			d.Resolved++
		}
	}
	sort.Strings(order)
	return derefTrends(counts, order), nil
}

// GenerateReport filters tickets by req and summarizes them, newest first.
func (s *TicketService) GenerateReport(ctx context.Context, req ReportRequest) (*Report, error) {
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, apperrors.NewValidationError("report range ends before it starts", map[string]any{
			"from": req.From, "to": req.To,
		})
	}
	matched, err := s.filter(ctx, func(t *domain.Ticket) bool {
		if req.From != nil && t.CreatedDate.Before(*req.From) {
			return false
		}
		if req.To != nil && t.CreatedDate.After(*req.To) {
			return false
		}
		if len(req.Statuses) > 0 && !slices.Contains(req.Statuses, t.Status) {
			return false
		}
		if len(req.Priorities) > 0 && !slices.Contains(req.Priorities, t.Priority) {
			return false
		}
		if req.Department != "" && !strings.EqualFold(req.Department, t.Department) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedDate.After(matched[j].CreatedDate.Time)
	})
	return &Report{
		GeneratedAt: s.timestamp(),
		Filters:     req,
		Summary:     tally(matched),
		Tickets:     matched,
	}, nil
}

func tally(tickets []domain.Ticket) TicketStatistics {
	stats := TicketStatistics{
		Total:        len(tickets),
		ByCategory:   map[string]int{},
		ByDepartment: map[string]int{},
	}
	for i := range tickets {
		t := &tickets[i]
		switch t.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusResolved:
			stats.Resolved++
		case domain.TicketStatusClosed:
			stats.Closed++
		}
		switch t.Priority {
		case domain.TicketPriorityHigh:
			stats.HighPriority++
		case domain.TicketPriorityMedium:
			stats.MediumPriority++
		case domain.TicketPriorityLow:
			stats.LowPriority++
		}
		if !t.IsAssigned() {
			stats.Unassigned++
		}
		stats.ByCategory[string(t.Category)]++
		stats.ByDepartment[t.Department]++
	}
	return stats
}

func derefTrends(counts map[string]*DailyTrend, order []string) []DailyTrend {
	out := make([]DailyTrend, 0, len(order))
	for _, day := range order {
		out = append(out, *counts[day])
	}
	return out
}

func isDone(status domain.TicketStatus) bool {
	return status == domain.TicketStatusResolved || status == domain.TicketStatusClosed
}

// String renders the statistics as a one-line summary for logs and the CLI.
func (st TicketStatistics) String() string {
	return fmt.Sprintf("total=%d open=%d in_progress=%d resolved=%d closed=%d unassigned=%d",
		st.Total, st.Open, st.InProgress, st.Resolved, st.Closed, st.Unassigned)
}
