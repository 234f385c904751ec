package domain

import "time"

// HistoryAction captures what happened in a history entry.
type HistoryAction string

const (
	ActionCreated     HistoryAction = "created"
	ActionUpdated     HistoryAction = "updated"
	ActionBulkUpdated HistoryAction = "bulk_updated"
	ActionDeleted     HistoryAction = "deleted"
)

// Default attribution when a request does not name a user.
const (
	AnonymousUser = "Anonymous"
	SystemUser    = "System"
)

// FieldChange is the before/after value of one ticket field.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Changes maps ticket field names to their transition.
type Changes map[string]FieldChange

// TicketHistory is an immutable audit trail entry.
type TicketHistory struct {
	ID        string        `json:"id"`
	TicketID  string        `json:"ticketId"`
	Action    HistoryAction `json:"action"`
	Changes   Changes       `json:"changes"`
	Ticket    *Ticket       `json:"ticket,omitempty"`
	User      string        `json:"user"`
	Timestamp time.Time     `json:"timestamp"`
}
