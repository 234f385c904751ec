package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/events"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
	"github.com/AbhignaKuchukulla/Issueflow/internal/repository"
	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

var ruleRelationship = "oneof=" + joinEnum(domain.RelationshipTypes, " ")

// LinkService keeps relatedTickets symmetric across ticket pairs.
type LinkService struct {
	base
}

// NewLinkService constructs the service.
func NewLinkService(deps Dependencies) *LinkService {
	return &LinkService{base: newBase(deps)}
}

// Link relates source to target and target back to source with the reverse type.
// Relinking with the same type is a no-op; relinking with another type is a conflict.
func (s *LinkService) Link(ctx context.Context, sourceID, targetID string, rel domain.RelationshipType, user string) (domain.Ticket, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return domain.Ticket{}, apperrors.NewBadRequest("relatedId is required")
	}
	if sourceID == targetID {
		return domain.Ticket{}, apperrors.NewValidationError("cannot link a ticket to itself")
	}
	if rel == "" {
		rel = domain.RelationshipRelated
	}
	if msg := checkField("relationship", rel, ruleRelationship); msg != "" {
		return domain.Ticket{}, apperrors.NewValidationError(msg)
	}
	user = attribution(user, domain.AnonymousUser)

	var result domain.Ticket
	err := s.update(ctx, func(doc *persistence.Document, out *outbox) error {
		tickets := repository.Tickets(doc)
		source, ok := tickets.GetByID(sourceID)
		if !ok {
			return ticketNotFound(sourceID)
		}
		target, ok := tickets.GetByID(targetID)
		if !ok {
			return apperrors.NewNotFound("related ticket", map[string]any{"id": targetID})
		}

		reverse := rel.Reverse()
		if err := guardExisting(source.RelatedTickets, targetID, rel); err != nil {
			return err
		}
		if err := guardExisting(target.RelatedTickets, sourceID, reverse); err != nil {
			return err
		}

		now := s.now()
		if domain.FindLink(source.RelatedTickets, targetID) < 0 {
			changes := mutate(source, now, func(t *domain.Ticket) {
				t.RelatedTickets = append(t.RelatedTickets, domain.Link{ID: targetID, Type: rel})
			})
			out.record(doc, sourceID, domain.ActionUpdated, changes, nil, user, now)
			out.emit(events.EventTicketUpdated, sourceID, user, now, events.TicketPayload{Ticket: source.Clone(), Changes: changes, User: user})
		}
		if domain.FindLink(target.RelatedTickets, sourceID) < 0 {
			changes := mutate(target, now, func(t *domain.Ticket) {
				t.RelatedTickets = append(t.RelatedTickets, domain.Link{ID: sourceID, Type: reverse})
			})
			out.emit(events.EventTicketUpdated, targetID, user, now, events.TicketPayload{Ticket: target.Clone(), Changes: changes, User: user})
		}

		result = source.Clone()
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.logger.Debug("tickets linked",
		zap.String("source_id", sourceID),
		zap.String("target_id", targetID),
		zap.String("type", string(rel)))
	return result, nil
}

func guardExisting(links []domain.Link, targetID string, want domain.RelationshipType) error {
	idx := domain.FindLink(links, targetID)
	if idx < 0 || links[idx].Type == want {
		return nil
	}
	return apperrors.NewConflict(fmt.Sprintf("tickets already linked as %s", links[idx].Type),
		map[string]any{"id": targetID, "type": links[idx].Type})
}

// Unlink removes the link in both directions. A missing target only clears the source side.
func (s *LinkService) Unlink(ctx context.Context, sourceID, targetID, user string) (domain.Ticket, error) {
	user = attribution(user, domain.AnonymousUser)

	var result domain.Ticket
	err := s.update(ctx, func(doc *persistence.Document, out *outbox) error {
		tickets := repository.Tickets(doc)
		source, ok := tickets.GetByID(sourceID)
		if !ok {
			return ticketNotFound(sourceID)
		}

		now := s.now()
		if domain.FindLink(source.RelatedTickets, targetID) >= 0 {
			changes := mutate(source, now, func(t *domain.Ticket) {
				t.RelatedTickets = domain.WithoutLink(t.RelatedTickets, targetID)
			})
			out.record(doc, sourceID, domain.ActionUpdated, changes, nil, user, now)
			out.emit(events.EventTicketUpdated, sourceID, user, now, events.TicketPayload{Ticket: source.Clone(), Changes: changes, User: user})
		}
		if target, ok := tickets.GetByID(targetID); ok && domain.FindLink(target.RelatedTickets, sourceID) >= 0 {
			changes := mutate(target, now, func(t *domain.Ticket) {
				t.RelatedTickets = domain.WithoutLink(t.RelatedTickets, sourceID)
			})
			out.emit(events.EventTicketUpdated, targetID, user, now, events.TicketPayload{Ticket: target.Clone(), Changes: changes, User: user})
		}

		result = source.Clone()
		return nil
	})
	return result, err
}
