package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/events"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
	"github.com/AbhignaKuchukulla/Issueflow/internal/repository"
	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

var mentionPattern = regexp.MustCompile(`@([\w.-]+)`)

// CommentService manages discussion threads on tickets.
type CommentService struct {
	base
}

// NewCommentService constructs the service.
func NewCommentService(deps Dependencies) *CommentService {
	return &CommentService{base: newBase(deps)}
}

// List returns the comments of a ticket, newest first.
func (s *CommentService) List(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := s.read(ctx, func(doc *persistence.Document) error {
		if !repository.Tickets(doc).Exists(ticketID) {
			return ticketNotFound(ticketID)
		}
		comments = repository.Comments(doc).ListByTicket(ticketID)
		return nil
	})
	return comments, err
}

// Add attaches a comment to an existing ticket.
func (s *CommentService) Add(ctx context.Context, ticketID, text, author string) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	author = attribution(author, domain.AnonymousUser)

	var v violations
	v.check("text", text, ruleCommentText)
	v.check("author", author, ruleAuthor)

	var created domain.Comment
	err := s.update(ctx, func(doc *persistence.Document, out *outbox) error {
		ticket, ok := repository.Tickets(doc).GetByID(ticketID)
		if !ok {
			return ticketNotFound(ticketID)
		}
		if len(v) > 0 {
			return apperrors.NewValidationError(v...)
		}

		now := s.now()
		created = domain.Comment{
			ID:        uuid.NewString(),
			TicketID:  ticketID,
			Text:      text,
			Author:    author,
			CreatedAt: now,
		}
		repository.Comments(doc).Insert(created)
		out.emit(events.EventCommentAdded, ticketID, author, now, events.CommentPayload{
			Comment:  created,
			Ticket:   ticket.Clone(),
			Mentions: Mentions(text),
		})
		return nil
	})
	return created, err
}

// Delete removes one comment.
func (s *CommentService) Delete(ctx context.Context, commentID string) error {
	return s.update(ctx, func(doc *persistence.Document, out *outbox) error {
		removed, ok := repository.Comments(doc).Delete(commentID)
		if !ok {
			return apperrors.NewNotFound("comment", map[string]any{"id": commentID})
		}
		out.emit(events.EventCommentDeleted, removed.TicketID, "", s.now(), events.CommentDeletedPayload{
			CommentID: removed.ID,
			TicketID:  removed.TicketID,
		})
		return nil
	})
}

// Mentions extracts distinct @names in order of appearance.
func Mentions(text string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimRight(m[1], ".-")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
