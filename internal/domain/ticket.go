package domain

import (
	"sort"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusReview     TicketStatus = "review"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every status in workflow order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusReview,
	TicketStatusClosed,
}

// Valid reports whether s is one of the enumerated statuses.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketPriorities lists every priority from lowest to highest.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// Valid reports whether p is one of the enumerated priorities.
func (p TicketPriority) Valid() bool {
	for _, candidate := range TicketPriorities {
		if p == candidate {
			return true
		}
	}
	return false
}

// Ticket is the aggregate tracked by the team.
type Ticket struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Status         TicketStatus   `json:"status"`
	Priority       TicketPriority `json:"priority"`
	Assignee       string         `json:"assignee"`
	DueDate        *time.Time     `json:"dueDate"`
	Tags           []string       `json:"tags"`
	RelatedTickets []Link         `json:"relatedTickets"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Clone returns a deep copy safe to mutate independently.
func (t Ticket) Clone() Ticket {
	cp := t
	if t.DueDate != nil {
		due := *t.DueDate
		cp.DueDate = &due
	}
	cp.Tags = append([]string{}, t.Tags...)
	cp.RelatedTickets = append([]Link{}, t.RelatedTickets...)
	return cp
}

// IsOverdue reports whether the ticket has a past due date and is still open work.
func (t Ticket) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != TicketStatusClosed
}

// HasAnyTag reports whether the ticket carries at least one of tags.
func (t Ticket) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range t.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}

// NormalizeTags trims, drops empty values and removes duplicates, keeping first occurrence order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// SameTagSet compares two tag lists ignoring order.
func SameTagSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string{}, a...)
	y := append([]string{}, b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
