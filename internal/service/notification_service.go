package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/config"
	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/events"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
)

// Mailer delivers a notice. Implementations must not block the caller for long.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes notices to the log instead of sending them.
type LogMailer struct {
	From   string
	Logger *zap.Logger
}

// Send logs the notice.
func (m LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.Logger.Info("notification",
		zap.String("from", m.From),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)))
	return nil
}

// NotificationService turns domain events into notices for people.
type NotificationService struct {
	base
	mailer Mailer
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service. A nil mailer logs notices.
func NewNotificationService(deps Dependencies, mailer Mailer, cfg config.NotificationConfig) *NotificationService {
	n := &NotificationService{base: newBase(deps), mailer: mailer, cfg: cfg}
	if n.mailer == nil {
		n.mailer = LogMailer{From: cfg.EmailFrom, Logger: n.logger}
	}
	return n
}

// NotificationEvents are the event types Handle reacts to.
var NotificationEvents = []events.EventType{
	events.EventTicketCreated,
	events.EventTicketUpdated,
	events.EventCommentAdded,
}

// Handle sends the notices an event calls for. Other event types are ignored.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventTicketCreated, events.EventTicketUpdated:
		return n.handleTicketChanged(ctx, event)
	case events.EventCommentAdded:
		return n.handleCommentAdded(ctx, event)
	}
	return nil
}

func (n *NotificationService) handleTicketChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketPayload)
	if !ok {
		return nil
	}
	assignee := payload.Ticket.Assignee
	if event.Type == events.EventTicketUpdated {
		change, changed := payload.Changes["assignee"]
		if !changed {
			return nil
		}
		assignee, _ = change.To.(string)
	}
	if assignee == "" {
		return nil
	}

	subject := fmt.Sprintf("You were assigned: %s", payload.Ticket.Title)
	body := fmt.Sprintf("%s assigned you to ticket %s (%s priority).\n\n%s",
		payload.User, payload.Ticket.ID, payload.Ticket.Priority, payload.Ticket.Description)
	return n.notify(ctx, assignee, subject, body)
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CommentPayload)
	if !ok {
		return nil
	}
	subject := fmt.Sprintf("You were mentioned on: %s", payload.Ticket.Title)
	body := fmt.Sprintf("%s mentioned you on ticket %s:\n\n%s",
		payload.Comment.Author, payload.Ticket.ID, payload.Comment.Text)

	var firstErr error
	for _, name := range payload.Mentions {
		if err := n.notify(ctx, name, subject, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendOverdueDigest tells one assignee about their overdue tickets.
func (n *NotificationService) SendOverdueDigest(ctx context.Context, assignee string, tickets []domain.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	var b strings.Builder
	for _, t := range tickets {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "- %s (%s, due %s)\n", t.Title, t.ID, due)
	}
	subject := fmt.Sprintf("%d overdue ticket(s)", len(tickets))
	return n.notify(ctx, assignee, subject, b.String())
}

// notify resolves name to an account email; unknown names are logged and skipped.
func (n *NotificationService) notify(ctx context.Context, name, subject, body string) error {
	email := n.emailFor(ctx, name)
	if email == "" {
		n.logger.Debug("notification skipped, no account for recipient", zap.String("recipient", name))
		return nil
	}
	return n.mailer.Send(ctx, email, subject, body)
}

func (n *NotificationService) emailFor(ctx context.Context, name string) string {
	if strings.Contains(name, "@") && strings.Contains(name, ".") {
		return name
	}
	var email string
	_ = n.read(ctx, func(doc *persistence.Document) error {
		for _, u := range doc.Users {
			if strings.EqualFold(u.Name, name) || strings.EqualFold(strings.SplitN(u.Email, "@", 2)[0], name) {
				email = u.Email
				return nil
			}
		}
		return nil
	})
	return email
}
