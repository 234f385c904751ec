package persistence

import (
	"encoding/json"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
)

// Document is the single persisted unit holding every collection.
type Document struct {
	Tickets      []domain.Ticket        `json:"tickets"`
	Comments     []domain.Comment       `json:"comments"`
	History      []domain.TicketHistory `json:"history"`
	SavedFilters []domain.SavedFilter   `json:"savedFilters"`
	Users        []domain.User          `json:"users"`
}

// NewDocument returns an empty document with non-nil collections.
func NewDocument() *Document {
	doc := &Document{}
	doc.normalize()
	return doc
}

func (d *Document) normalize() {
	if d.Tickets == nil {
		d.Tickets = []domain.Ticket{}
	}
	if d.Comments == nil {
		d.Comments = []domain.Comment{}
	}
	if d.History == nil {
		d.History = []domain.TicketHistory{}
	}
	if d.SavedFilters == nil {
		d.SavedFilters = []domain.SavedFilter{}
	}
	if d.Users == nil {
		d.Users = []domain.User{}
	}
	for i := range d.Tickets {
		if d.Tickets[i].Tags == nil {
			d.Tickets[i].Tags = []string{}
		}
		if d.Tickets[i].RelatedTickets == nil {
			d.Tickets[i].RelatedTickets = []domain.Link{}
		}
	}
}

// Clone deep-copies mutable collections. History entries are immutable and
// shared between copies.
func (d *Document) Clone() *Document {
	cp := &Document{
		Tickets:      make([]domain.Ticket, len(d.Tickets)),
		Comments:     append([]domain.Comment{}, d.Comments...),
		History:      append([]domain.TicketHistory{}, d.History...),
		SavedFilters: make([]domain.SavedFilter, len(d.SavedFilters)),
		Users:        append([]domain.User{}, d.Users...),
	}
	for i := range d.Tickets {
		cp.Tickets[i] = d.Tickets[i].Clone()
	}
	for i, f := range d.SavedFilters {
		filters := make(map[string]any, len(f.Filters))
		for k, v := range f.Filters {
			filters[k] = v
		}
		f.Filters = filters
		cp.SavedFilters[i] = f
	}
	return cp
}

// Encode serializes the document the way it is written to disk.
func (d *Document) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// DecodeDocument parses a persisted document. Empty input yields an empty document.
func DecodeDocument(data []byte) (*Document, error) {
	doc := &Document{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, err
		}
	}
	doc.normalize()
	return doc, nil
}
