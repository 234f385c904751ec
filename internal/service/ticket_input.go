package service

import (
	"slices"
	"strings"
	"time"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
)

// TicketInput is a complete set of mutable ticket fields, used by create and replace.
type TicketInput struct {
	Title       string
	Description string
	Status      domain.TicketStatus
	Priority    domain.TicketPriority
	Assignee    string
	DueDate     *time.Time
	Tags        []string
}

func (in TicketInput) normalized() TicketInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Assignee = strings.TrimSpace(in.Assignee)
	in.Tags = domain.NormalizeTags(in.Tags)
	return in
}

// Validate returns every violation found; nil means the input is acceptable.
func (in TicketInput) Validate() []string {
	in = in.normalized()
	var v violations
	v.check("title", in.Title, ruleTitle)
	v.check("description", in.Description, ruleDescription)
	v.check("status", in.Status, ruleStatus)
	v.check("priority", in.Priority, rulePriority)
	v.check("assignee", in.Assignee, ruleAssignee)
	return v
}

// TicketPatch carries only the fields a caller supplied. Nil pointers are absent;
// DueDateSet distinguishes an explicit null from an absent dueDate.
type TicketPatch struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	Assignee    *string
	DueDate     *time.Time
	DueDateSet  bool
	Tags        *[]string
}

// IsEmpty reports whether no mutable field was supplied.
func (p TicketPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil &&
		p.Assignee == nil && !p.DueDateSet && p.Tags == nil
}

// Validate checks only the fields present.
func (p TicketPatch) Validate() []string {
	if p.IsEmpty() {
		return []string{"nothing to update"}
	}
	var v violations
	if p.Title != nil {
		v.check("title", strings.TrimSpace(*p.Title), ruleTitle)
	}
	if p.Description != nil {
		v.check("description", strings.TrimSpace(*p.Description), ruleDescription)
	}
	if p.Status != nil {
		v.check("status", *p.Status, ruleStatus)
	}
	if p.Priority != nil {
		v.check("priority", *p.Priority, rulePriority)
	}
	if p.Assignee != nil {
		v.check("assignee", strings.TrimSpace(*p.Assignee), ruleAssignee)
	}
	return v
}

// Apply merges the present fields into t. Fields outside the whitelist cannot be set.
func (p TicketPatch) Apply(t *domain.Ticket) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Assignee != nil {
		t.Assignee = strings.TrimSpace(*p.Assignee)
	}
	if p.DueDateSet {
		t.DueDate = copyTime(p.DueDate)
	}
	if p.Tags != nil {
		t.Tags = domain.NormalizeTags(*p.Tags)
	}
}

// applyInput overwrites every mutable field of t with in.
func applyInput(t *domain.Ticket, in TicketInput) {
	in = in.normalized()
	t.Title = in.Title
	t.Description = in.Description
	t.Status = in.Status
	t.Priority = in.Priority
	t.Assignee = in.Assignee
	t.DueDate = copyTime(in.DueDate)
	t.Tags = in.Tags
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// diffTickets lists every field whose value differs between before and after.
// Tags compare as sets; timestamps compare as instants.
func diffTickets(before, after domain.Ticket) domain.Changes {
	changes := domain.Changes{}
	if before.Title != after.Title {
		changes["title"] = domain.FieldChange{From: before.Title, To: after.Title}
	}
	if before.Description != after.Description {
		changes["description"] = domain.FieldChange{From: before.Description, To: after.Description}
	}
	if before.Status != after.Status {
		changes["status"] = domain.FieldChange{From: before.Status, To: after.Status}
	}
	if before.Priority != after.Priority {
		changes["priority"] = domain.FieldChange{From: before.Priority, To: after.Priority}
	}
	if before.Assignee != after.Assignee {
		changes["assignee"] = domain.FieldChange{From: before.Assignee, To: after.Assignee}
	}
	if !sameInstant(before.DueDate, after.DueDate) {
		changes["dueDate"] = domain.FieldChange{From: copyTime(before.DueDate), To: copyTime(after.DueDate)}
	}
	if !domain.SameTagSet(before.Tags, after.Tags) {
		changes["tags"] = domain.FieldChange{
			From: append([]string{}, before.Tags...),
			To:   append([]string{}, after.Tags...),
		}
	}
	if !slices.Equal(before.RelatedTickets, after.RelatedTickets) {
		changes["relatedTickets"] = domain.FieldChange{
			From: append([]domain.Link{}, before.RelatedTickets...),
			To:   append([]domain.Link{}, after.RelatedTickets...),
		}
	}
	return changes
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
