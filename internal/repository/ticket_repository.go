package repository

import (
	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
)

// TicketRepository accesses the ticket collection of a document.
type TicketRepository struct {
	doc *persistence.Document
}

// Tickets binds a repository to doc.
func Tickets(doc *persistence.Document) TicketRepository {
	return TicketRepository{doc: doc}
}

// Insert places a new ticket at the head of the collection.
func (r TicketRepository) Insert(ticket domain.Ticket) {
	r.doc.Tickets = append([]domain.Ticket{ticket}, r.doc.Tickets...)
}

// GetByID returns a pointer into the document, valid until the next insert or delete.
func (r TicketRepository) GetByID(id string) (*domain.Ticket, bool) {
	for i := range r.doc.Tickets {
		if r.doc.Tickets[i].ID == id {
			return &r.doc.Tickets[i], true
		}
	}
	return nil, false
}

// Exists reports whether a ticket with id is stored.
func (r TicketRepository) Exists(id string) bool {
	_, ok := r.GetByID(id)
	return ok
}

// List returns copies of every ticket in storage order.
func (r TicketRepository) List() []domain.Ticket {
	out := make([]domain.Ticket, len(r.doc.Tickets))
	for i := range r.doc.Tickets {
		out[i] = r.doc.Tickets[i].Clone()
	}
	return out
}

// Delete removes the ticket and returns the removed value.
func (r TicketRepository) Delete(id string) (domain.Ticket, bool) {
	for i := range r.doc.Tickets {
		if r.doc.Tickets[i].ID == id {
			removed := r.doc.Tickets[i]
			r.doc.Tickets = append(r.doc.Tickets[:i], r.doc.Tickets[i+1:]...)
			return removed, true
		}
	}
	return domain.Ticket{}, false
}

// LinkedTo returns ids of tickets holding a link that points at id.
func (r TicketRepository) LinkedTo(id string) []string {
	var ids []string
	for i := range r.doc.Tickets {
		if domain.FindLink(r.doc.Tickets[i].RelatedTickets, id) >= 0 {
			ids = append(ids, r.doc.Tickets[i].ID)
		}
	}
	return ids
}
