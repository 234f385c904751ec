package repository

import (
	"strings"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
)

// UserRepository accesses accounts stored in a document.
type UserRepository struct {
	doc *persistence.Document
}

// Users binds a repository to doc.
func Users(doc *persistence.Document) UserRepository {
	return UserRepository{doc: doc}
}

func (r UserRepository) Insert(user domain.User) {
	r.doc.Users = append(r.doc.Users, user)
}

func (r UserRepository) GetByID(id string) (domain.User, bool) {
	for _, u := range r.doc.Users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// GetByEmail matches case-insensitively.
func (r UserRepository) GetByEmail(email string) (domain.User, bool) {
	for _, u := range r.doc.Users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return domain.User{}, false
}
