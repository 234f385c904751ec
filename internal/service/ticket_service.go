package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/events"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
	"github.com/AbhignaKuchukulla/Issueflow/internal/query"
	"github.com/AbhignaKuchukulla/Issueflow/internal/repository"
	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

// BulkOperation names what BulkApply does to each id.
type BulkOperation string

const (
	BulkUpdate BulkOperation = "update"
	BulkDelete BulkOperation = "delete"
)

// BulkResult reports the per-id outcome of a bulk operation.
type BulkResult struct {
	Success []string `json:"success"`
	Failed  []string `json:"failed"`
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	base
}

// NewTicketService constructs the service.
func NewTicketService(deps Dependencies) *TicketService {
	return &TicketService{base: newBase(deps)}
}

// Create validates input and stores a new ticket.
func (s *TicketService) Create(ctx context.Context, input TicketInput, user string) (domain.Ticket, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return domain.Ticket{}, apperrors.NewValidationError(errs...)
	}
	user = attribution(user, domain.AnonymousUser)

	var created domain.Ticket
	err := s.update(ctx, func(doc *persistence.Document, out *outbox) error {
		now := s.now()
		ticket := domain.Ticket{
			ID:             uuid.NewString(),
			RelatedTickets: []domain.Link{},
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		applyInput(&ticket, input)

		repository.Tickets(doc).Insert(ticket)
		snapshot := ticket.Clone()
		out.record(doc, ticket.ID, domain.ActionCreated, nil, &snapshot, user, now)
		out.emit(events.EventTicketCreated, ticket.ID, user, now, events.TicketPayload{Ticket: ticket.Clone(), User: user})

		created = ticket.Clone()
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.logger.Info("ticket created", zap.String("ticket_id", created.ID), zap.String("user", user))
	return created, nil
}

// Get returns one ticket.
func (s *TicketService) Get(ctx context.Context, id string) (domain.Ticket, error) {
	var found domain.Ticket
	err := s.read(ctx, func(doc *persistence.Document) error {
		ticket, ok := repository.Tickets(doc).GetByID(id)
		if !ok {
			return ticketNotFound(id)
		}
		found = ticket.Clone()
		return nil
	})
	return found, err
}

// List returns every ticket in storage order.
func (s *TicketService) List(ctx context.Context) []domain.Ticket {
	var tickets []domain.Ticket
	_ = s.read(ctx, func(doc *persistence.Document) error {
		tickets = repository.Tickets(doc).List()
		return nil
	})
	return tickets
}

// Query filters, sorts and paginates the collection.
func (s *TicketService) Query(ctx context.Context, params query.Params) query.Result {
	var res query.Result
	_ = s.read(ctx, func(doc *persistence.Document) error {
		res = query.Run(doc.Tickets, params, s.now())
		for i := range res.Data {
			res.Data[i] = res.Data[i].Clone()
		}
		return nil
	})
	return res
}

// Replace overwrites every mutable field of an existing ticket.
func (s *TicketService) Replace(ctx context.Context, id string, input TicketInput, user string) (domain.Ticket, error) {
	user = attribution(user, domain.AnonymousUser)
	return s.modify(ctx, id, user, func() []string {
		return input.Validate()
	}, func(t *domain.Ticket) {
		applyInput(t, input)
	})
}

// Patch merges the supplied fields into an existing ticket.
func (s *TicketService) Patch(ctx context.Context, id string, patch TicketPatch, user string) (domain.Ticket, error) {
	user = attribution(user, domain.AnonymousUser)
	return s.modify(ctx, id, user, patch.Validate, patch.Apply)
}

// modify looks the ticket up before validating so a missing id wins over bad input.
func (s *TicketService) modify(ctx context.Context, id, user string, check func() []string, apply func(*domain.Ticket)) (domain.Ticket, error) {
	var updated domain.Ticket
	err := s.update(ctx, func(doc *persistence.Document, out *outbox) error {
		ticket, ok := repository.Tickets(doc).GetByID(id)
		if !ok {
			return ticketNotFound(id)
		}
		if errs := check(); len(errs) > 0 {
			return apperrors.NewValidationError(errs...)
		}

		now := s.now()
		changes := mutate(ticket, now, apply)
		if len(changes) > 0 {
			out.record(doc, id, domain.ActionUpdated, changes, nil, user, now)
		}
		out.emit(events.EventTicketUpdated, id, user, now, events.TicketPayload{Ticket: ticket.Clone(), Changes: changes, User: user})

		updated = ticket.Clone()
		return nil
	})
	return updated, err
}

// mutate applies fn to ticket, bumps updatedAt and returns the field diff.
func mutate(ticket *domain.Ticket, now time.Time, fn func(*domain.Ticket)) domain.Changes {
	before := ticket.Clone()
	fn(ticket)
	ticket.UpdatedAt = now
	return diffTickets(before, *ticket)
}

// Delete removes a ticket together with its comments and every link pointing at it.
func (s *TicketService) Delete(ctx context.Context, id, user string) error {
	user = attribution(user, domain.AnonymousUser)
	err := s.update(ctx, func(doc *persistence.Document, out *outbox) error {
		return s.deleteTicket(doc, out, id, user)
	})
	if err == nil {
		s.logger.Info("ticket deleted", zap.String("ticket_id", id), zap.String("user", user))
	}
	return err
}

func (s *TicketService) deleteTicket(doc *persistence.Document, out *outbox, id, user string) error {
	tickets := repository.Tickets(doc)
	removed, ok := tickets.Delete(id)
	if !ok {
		return ticketNotFound(id)
	}

	now := s.now()
	snapshot := removed.Clone()
	out.record(doc, id, domain.ActionDeleted, nil, &snapshot, user, now)
	repository.Comments(doc).DeleteByTicket(id)

	for _, otherID := range tickets.LinkedTo(id) {
		other, _ := tickets.GetByID(otherID)
		changes := mutate(other, now, func(t *domain.Ticket) {
			t.RelatedTickets = domain.WithoutLink(t.RelatedTickets, id)
		})
		out.record(doc, otherID, domain.ActionUpdated, changes, nil, user, now)
		out.emit(events.EventTicketUpdated, otherID, user, now, events.TicketPayload{Ticket: other.Clone(), Changes: changes, User: user})
	}

	out.emit(events.EventTicketDeleted, id, user, now, events.TicketDeletedPayload{TicketID: id, Ticket: removed.Clone(), User: user})
	return nil
}

// BulkApply runs op against every id in its own transaction. The batch is not
// atomic: each id lands in Success or Failed independently.
func (s *TicketService) BulkApply(ctx context.Context, op BulkOperation, ids []string, patch TicketPatch, user string) (BulkResult, error) {
	switch op {
	case BulkUpdate, BulkDelete:
	default:
		return BulkResult{}, apperrors.NewInvalidOperation(string(op))
	}
	if len(ids) == 0 {
		return BulkResult{}, apperrors.NewValidationError("ids must be a non-empty list")
	}
	if op == BulkUpdate {
		if errs := patch.Validate(); len(errs) > 0 {
			return BulkResult{}, apperrors.NewValidationError(errs...)
		}
	}
	user = attribution(user, domain.SystemUser)

	result := BulkResult{Success: []string{}, Failed: []string{}}
	for _, id := range ids {
		var err error
		if op == BulkDelete {
			err = s.update(ctx, func(doc *persistence.Document, out *outbox) error {
				return s.deleteTicket(doc, out, id, user)
			})
		} else {
			err = s.bulkPatch(ctx, id, patch, user)
		}

		if err != nil {
			if !apperrors.IsNotFound(err) {
				s.logger.Warn("bulk item failed", zap.String("operation", string(op)), zap.String("ticket_id", id), zap.Error(err))
			}
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Success = append(result.Success, id)
	}

	s.logger.Info("bulk operation applied",
		zap.String("operation", string(op)),
		zap.Int("succeeded", len(result.Success)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

func (s *TicketService) bulkPatch(ctx context.Context, id string, patch TicketPatch, user string) error {
	return s.update(ctx, func(doc *persistence.Document, out *outbox) error {
		ticket, ok := repository.Tickets(doc).GetByID(id)
		if !ok {
			return ticketNotFound(id)
		}
		now := s.now()
		changes := mutate(ticket, now, patch.Apply)
		if len(changes) > 0 {
			out.record(doc, id, domain.ActionBulkUpdated, changes, nil, user, now)
		}
		out.emit(events.EventTicketUpdated, id, user, now, events.TicketPayload{Ticket: ticket.Clone(), Changes: changes, User: user})
		return nil
	})
}

// History returns the audit trail of a ticket, newest first. Deleted tickets
// keep their history; an id never seen is NotFound.
func (s *TicketService) History(ctx context.Context, id string) ([]domain.TicketHistory, error) {
	var entries []domain.TicketHistory
	err := s.read(ctx, func(doc *persistence.Document) error {
		entries = repository.History(doc).ByTicket(id)
		if len(entries) == 0 && !repository.Tickets(doc).Exists(id) {
			return ticketNotFound(id)
		}
		return nil
	})
	return entries, err
}

func ticketNotFound(id string) error {
	return apperrors.NewNotFound("ticket", map[string]any{"id": id})
}
