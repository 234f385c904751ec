package dto

import (
	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/service"
)

// DecodeTicketInput reads a create or replace body. Missing required fields
// are left empty for field validation to report.
func DecodeTicketInput(obj Object) (service.TicketInput, string, error) {
	r := &fieldReader{obj: obj}
	in := service.TicketInput{
		Title:       deref(r.str("title", false)),
		Description: deref(r.str("description", false)),
		Status:      domain.TicketStatus(deref(r.str("status", false))),
		Priority:    domain.TicketPriority(deref(r.str("priority", false))),
		Assignee:    deref(r.str("assignee", true)),
	}
	in.DueDate, _ = r.date("dueDate")
	if tags := r.list("tags"); tags != nil {
		in.Tags = *tags
	}
	user := deref(r.str("user", true))
	return in, user, r.err()
}

// DecodeTicketPatch reads a partial update. Only the mutable ticket fields are
// read; "user" is returned separately as attribution.
func DecodeTicketPatch(obj Object) (service.TicketPatch, string, error) {
	r := &fieldReader{obj: obj}
	var patch service.TicketPatch

	patch.Title = r.str("title", false)
	patch.Description = r.str("description", false)
	if s := r.str("status", false); s != nil {
		status := domain.TicketStatus(*s)
		patch.Status = &status
	}
	if s := r.str("priority", false); s != nil {
		priority := domain.TicketPriority(*s)
		patch.Priority = &priority
	}
	patch.Assignee = r.str("assignee", true)
	patch.DueDate, patch.DueDateSet = r.date("dueDate")
	patch.Tags = r.list("tags")

	user := deref(r.str("user", true))
	return patch, user, r.err()
}

// TicketPage is the list response.
type TicketPage struct {
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
	Data     []domain.Ticket `json:"data"`
}

// BulkRequest is the body of POST /api/tickets/bulk.
type BulkRequest struct {
	Operation service.BulkOperation
	IDs       []string
	Updates   service.TicketPatch
	User      string
}

// DecodeBulkRequest reads a bulk body. Missing updates decode to an empty patch.
func DecodeBulkRequest(obj Object) (BulkRequest, error) {
	r := &fieldReader{obj: obj}
	req := BulkRequest{
		Operation: service.BulkOperation(deref(r.str("operation", true))),
		User:      deref(r.str("user", true)),
	}
	if ids := r.list("ids"); ids != nil {
		req.IDs = *ids
	}
	if err := r.err(); err != nil {
		return req, err
	}

	if obj.Has("updates") && !obj.isNull("updates") {
		updates, err := ParseObject(obj["updates"])
		if err != nil {
			return req, err
		}
		req.Updates, _, err = DecodeTicketPatch(updates)
		if err != nil {
			return req, err
		}
	}
	return req, nil
}

// LinkRequest is the body of POST /api/tickets/:id/link.
type LinkRequest struct {
	RelatedID    string
	Relationship domain.RelationshipType
	User         string
}

// DecodeLinkRequest reads a link body.
func DecodeLinkRequest(obj Object) (LinkRequest, error) {
	r := &fieldReader{obj: obj}
	req := LinkRequest{
		RelatedID:    deref(r.str("relatedId", true)),
		Relationship: domain.RelationshipType(deref(r.str("relationship", true))),
		User:         deref(r.str("user", true)),
	}
	return req, r.err()
}

// CommentRequest is the body of POST /api/tickets/:id/comments.
type CommentRequest struct {
	Text   string
	Author string
}

// DecodeCommentRequest reads a comment body.
func DecodeCommentRequest(obj Object) (CommentRequest, error) {
	r := &fieldReader{obj: obj}
	req := CommentRequest{
		Text:   deref(r.str("text", false)),
		Author: deref(r.str("author", true)),
	}
	return req, r.err()
}

// FilterRequest is the body of POST /api/filters.
type FilterRequest struct {
	Name    string
	Filters map[string]any
}

// DecodeFilterRequest reads a saved filter body. Absent or null filters decode to nil.
func DecodeFilterRequest(obj Object) (FilterRequest, error) {
	r := &fieldReader{obj: obj}
	req := FilterRequest{
		Name:    deref(r.str("name", false)),
		Filters: r.object("filters"),
	}
	return req, r.err()
}
