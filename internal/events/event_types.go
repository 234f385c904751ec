package events

import (
	"time"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
)

// EventType enumerates supported event identifiers. Values double as the
// realtime frame names.
type EventType string

const (
	EventTicketCreated  EventType = "ticket:created"
	EventTicketUpdated  EventType = "ticket:updated"
	EventTicketDeleted  EventType = "ticket:deleted"
	EventCommentAdded   EventType = "comment:added"
	EventCommentDeleted EventType = "comment:deleted"
	EventActivityLog    EventType = "activity:log"
	EventPresenceUpdate EventType = "presence:update"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticketId,omitempty"`
	User      string    `json:"user,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketPayload accompanies ticket:created and ticket:updated.
type TicketPayload struct {
	Ticket  domain.Ticket  `json:"ticket"`
	Changes domain.Changes `json:"changes,omitempty"`
	User    string         `json:"user"`
}

// TicketDeletedPayload accompanies ticket:deleted.
type TicketDeletedPayload struct {
	TicketID string        `json:"ticketId"`
	Ticket   domain.Ticket `json:"ticket"`
	User     string        `json:"user"`
}

// CommentPayload accompanies comment:added. Mentions lists @names found in the text.
type CommentPayload struct {
	Comment  domain.Comment `json:"comment"`
	Ticket   domain.Ticket  `json:"ticket"`
	Mentions []string       `json:"mentions,omitempty"`
}

// CommentDeletedPayload accompanies comment:deleted.
type CommentDeletedPayload struct {
	CommentID string `json:"commentId"`
	TicketID  string `json:"ticketId"`
}
