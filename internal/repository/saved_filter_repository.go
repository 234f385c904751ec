package repository

import (
	"sort"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
)

// SavedFilterRepository accesses saved filters of a document.
type SavedFilterRepository struct {
	doc *persistence.Document
}

// SavedFilters binds a repository to doc.
func SavedFilters(doc *persistence.Document) SavedFilterRepository {
	return SavedFilterRepository{doc: doc}
}

func (r SavedFilterRepository) Insert(filter domain.SavedFilter) {
	r.doc.SavedFilters = append(r.doc.SavedFilters, filter)
}

// List returns filters newest first.
func (r SavedFilterRepository) List() []domain.SavedFilter {
	out := append([]domain.SavedFilter{}, r.doc.SavedFilters...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r SavedFilterRepository) Delete(id string) bool {
	for i, f := range r.doc.SavedFilters {
		if f.ID == id {
			r.doc.SavedFilters = append(r.doc.SavedFilters[:i], r.doc.SavedFilters[i+1:]...)
			return true
		}
	}
	return false
}
