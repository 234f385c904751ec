package service

import (
	"context"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
	"github.com/AbhignaKuchukulla/Issueflow/internal/repository"
)

// UnassignedLabel groups tickets without an assignee in assignee stats.
const UnassignedLabel = "Unassigned"

// RecentActivityLimit is the size of the activity slice embedded in analytics.
const RecentActivityLimit = 10

// AssigneeStats counts tickets held by one assignee.
type AssigneeStats struct {
	Total  int `json:"total"`
	Open   int `json:"open"`
	Closed int `json:"closed"`
}

// Analytics summarizes the ticket collection.
type Analytics struct {
	Total          int                           `json:"total"`
	ByStatus       map[domain.TicketStatus]int   `json:"byStatus"`
	ByPriority     map[domain.TicketPriority]int `json:"byPriority"`
	Overdue        int                           `json:"overdue"`
	AssigneeStats  map[string]AssigneeStats      `json:"assigneeStats"`
	RecentActivity []domain.TicketHistory        `json:"recentActivity"`
}

// AnalyticsService computes dashboards and the activity feed.
type AnalyticsService struct {
	base
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(deps Dependencies) *AnalyticsService {
	return &AnalyticsService{base: newBase(deps)}
}

// Summary aggregates counts over every ticket.
func (s *AnalyticsService) Summary(ctx context.Context) Analytics {
	out := Analytics{
		ByStatus:      make(map[domain.TicketStatus]int, len(domain.TicketStatuses)),
		ByPriority:    make(map[domain.TicketPriority]int, len(domain.TicketPriorities)),
		AssigneeStats: map[string]AssigneeStats{},
	}
	for _, st := range domain.TicketStatuses {
		out.ByStatus[st] = 0
	}
	for _, p := range domain.TicketPriorities {
		out.ByPriority[p] = 0
	}

	now := s.now()
	_ = s.read(ctx, func(doc *persistence.Document) error {
		out.Total = len(doc.Tickets)
		for _, t := range doc.Tickets {
			out.ByStatus[t.Status]++
			out.ByPriority[t.Priority]++
			if t.IsOverdue(now) {
				out.Overdue++
			}

			name := t.Assignee
			if name == "" {
				name = UnassignedLabel
			}
			stats := out.AssigneeStats[name]
			stats.Total++
			switch t.Status {
			case domain.TicketStatusOpen:
				stats.Open++
			case domain.TicketStatusClosed:
				stats.Closed++
			}
			out.AssigneeStats[name] = stats
		}
		out.RecentActivity = repository.History(doc).Recent(RecentActivityLimit)
		return nil
	})
	return out
}

// Activity returns the newest history entries across all tickets.
func (s *AnalyticsService) Activity(ctx context.Context, limit int) []domain.TicketHistory {
	if limit <= 0 {
		limit = RecentActivityLimit
	}
	var entries []domain.TicketHistory
	_ = s.read(ctx, func(doc *persistence.Document) error {
		entries = repository.History(doc).Recent(limit)
		return nil
	})
	return entries
}
