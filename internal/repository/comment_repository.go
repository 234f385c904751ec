package repository

import (
	"sort"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
)

// CommentRepository accesses the comment collection of a document.
type CommentRepository struct {
	doc *persistence.Document
}

// Comments binds a repository to doc.
func Comments(doc *persistence.Document) CommentRepository {
	return CommentRepository{doc: doc}
}

func (r CommentRepository) Insert(comment domain.Comment) {
	r.doc.Comments = append([]domain.Comment{comment}, r.doc.Comments...)
}

func (r CommentRepository) GetByID(id string) (domain.Comment, bool) {
	for _, c := range r.doc.Comments {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Comment{}, false
}

// ListByTicket returns the comments of one ticket, newest first.
func (r CommentRepository) ListByTicket(ticketID string) []domain.Comment {
	out := []domain.Comment{}
	for _, c := range r.doc.Comments {
		if c.TicketID == ticketID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r CommentRepository) Delete(id string) (domain.Comment, bool) {
	for i, c := range r.doc.Comments {
		if c.ID == id {
			r.doc.Comments = append(r.doc.Comments[:i], r.doc.Comments[i+1:]...)
			return c, true
		}
	}
	return domain.Comment{}, false
}

// DeleteByTicket removes every comment of ticketID and returns how many were removed.
func (r CommentRepository) DeleteByTicket(ticketID string) int {
	kept := r.doc.Comments[:0]
	removed := 0
	for _, c := range r.doc.Comments {
		if c.TicketID == ticketID {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	r.doc.Comments = kept
	return removed
}
