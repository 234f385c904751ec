package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
	"github.com/AbhignaKuchukulla/Issueflow/internal/repository"
	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

// FilterService stores named list queries.
type FilterService struct {
	base
}

// NewFilterService constructs the service.
func NewFilterService(deps Dependencies) *FilterService {
	return &FilterService{base: newBase(deps)}
}

// List returns saved filters newest first.
func (s *FilterService) List(ctx context.Context) []domain.SavedFilter {
	var filters []domain.SavedFilter
	_ = s.read(ctx, func(doc *persistence.Document) error {
		filters = repository.SavedFilters(doc).List()
		return nil
	})
	return filters
}

// Create stores a filter. A nil filters map is stored as an empty object.
func (s *FilterService) Create(ctx context.Context, name string, filters map[string]any) (domain.SavedFilter, error) {
	name = strings.TrimSpace(name)
	if msg := checkField("name", name, ruleFilterName); msg != "" {
		return domain.SavedFilter{}, apperrors.NewValidationError(msg)
	}
	if filters == nil {
		filters = map[string]any{}
	}

	created := domain.SavedFilter{
		ID:      uuid.NewString(),
		Name:    name,
		Filters: filters,
	}
	err := s.update(ctx, func(doc *persistence.Document, _ *outbox) error {
		created.CreatedAt = s.now()
		repository.SavedFilters(doc).Insert(created)
		return nil
	})
	return created, err
}

// Delete removes a filter by id.
func (s *FilterService) Delete(ctx context.Context, id string) error {
	return s.update(ctx, func(doc *persistence.Document, _ *outbox) error {
		if !repository.SavedFilters(doc).Delete(id) {
			return apperrors.NewNotFound("filter", map[string]any{"id": id})
		}
		return nil
	})
}
