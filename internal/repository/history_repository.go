package repository

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
)

// HistoryLedger is the append-only audit trail of a document.
// Entries are stored newest first and never modified or removed.
type HistoryLedger struct {
	doc *persistence.Document
}

// History binds a ledger to doc.
func History(doc *persistence.Document) HistoryLedger {
	return HistoryLedger{doc: doc}
}

// Append records an entry at the head of the ledger.
func (l HistoryLedger) Append(ticketID string, action domain.HistoryAction, changes domain.Changes, snapshot *domain.Ticket, user string, at time.Time) domain.TicketHistory {
	if changes == nil {
		changes = domain.Changes{}
	}
	if user == "" {
		user = domain.AnonymousUser
	}
	entry := domain.TicketHistory{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		Action:    action,
		Changes:   changes,
		Ticket:    snapshot,
		User:      user,
		Timestamp: at,
	}
	l.doc.History = append([]domain.TicketHistory{entry}, l.doc.History...)
	return entry
}

// ByTicket returns the entries of one ticket, newest first.
func (l HistoryLedger) ByTicket(ticketID string) []domain.TicketHistory {
	out := []domain.TicketHistory{}
	for _, entry := range l.doc.History {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	sortNewestFirst(out)
	return out
}

// Recent returns the n newest entries across all tickets.
func (l HistoryLedger) Recent(n int) []domain.TicketHistory {
	out := append([]domain.TicketHistory{}, l.doc.History...)
	sortNewestFirst(out)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func sortNewestFirst(entries []domain.TicketHistory) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}
