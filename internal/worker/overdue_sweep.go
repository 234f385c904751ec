package worker

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/query"
)

// TicketQuerier runs a ticket query.
type TicketQuerier interface {
	Query(ctx context.Context, params query.Params) query.Result
}

// DigestSender delivers one overdue digest.
type DigestSender interface {
	SendOverdueDigest(ctx context.Context, assignee string, tickets []domain.Ticket) error
}

// OverdueSweep periodically mails each assignee the list of their overdue tickets.
type OverdueSweep struct {
	tickets  TicketQuerier
	digests  DigestSender
	interval time.Duration
	logger   *zap.Logger
}

// NewOverdueSweep builds a sweep. A zero interval disables Run.
func NewOverdueSweep(tickets TicketQuerier, digests DigestSender, interval time.Duration, logger *zap.Logger) *OverdueSweep {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverdueSweep{tickets: tickets, digests: digests, interval: interval, logger: logger}
}

// Run sweeps on every tick until ctx is done.
func (s *OverdueSweep) Run(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("overdue sweep disabled")
		return nil
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sent, err := s.RunOnce(ctx)
			if err != nil {
				s.logger.Warn("overdue sweep incomplete", zap.Int("digests", sent), zap.Error(err))
				continue
			}
			s.logger.Debug("overdue sweep finished", zap.Int("digests", sent))
		}
	}
}

// RunOnce sends one digest per assignee with overdue work and returns how many
// were delivered. Unassigned tickets are skipped.
func (s *OverdueSweep) RunOnce(ctx context.Context) (int, error) {
	byAssignee := map[string][]domain.Ticket{}
	params := query.Params{Overdue: true, SortBy: "dueDate", SortOrder: "asc", Page: 1, PageSize: query.MaxPageSize}
	for {
		res := s.tickets.Query(ctx, params)
		for _, t := range res.Data {
			if t.Assignee == "" {
				continue
			}
			byAssignee[t.Assignee] = append(byAssignee[t.Assignee], t)
		}
		if params.Page*params.PageSize >= res.Total || len(res.Data) == 0 {
			break
		}
		params.Page++
	}

	assignees := make([]string, 0, len(byAssignee))
	for name := range byAssignee {
		assignees = append(assignees, name)
	}
	sort.Strings(assignees)

	var errs []error
	sent := 0
	for _, name := range assignees {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := s.digests.SendOverdueDigest(ctx, name, byAssignee[name]); err != nil {
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}
