package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/events"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
	"github.com/AbhignaKuchukulla/Issueflow/internal/query"
	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

func TestCreateStampsAndRecords(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	in := validInput("  Login broken  ")
	in.Tags = []string{"bug", " ui ", "bug", ""}
	ticket, err := h.tickets.Create(ctx, in, "")
	require.NoError(t, err)

	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, "Login broken", ticket.Title)
	assert.Equal(t, []string{"bug", "ui"}, ticket.Tags)
	assert.Empty(t, ticket.RelatedTickets)
	assert.Nil(t, ticket.DueDate)
	assert.Equal(t, ticket.CreatedAt, ticket.UpdatedAt)

	history, err := h.tickets.History(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ActionCreated, history[0].Action)
	assert.Equal(t, domain.AnonymousUser, history[0].User)
	assert.Empty(t, history[0].Changes)
	require.NotNil(t, history[0].Ticket)
	assert.Equal(t, ticket.ID, history[0].Ticket.ID)

	assert.Equal(t, []events.EventType{events.EventTicketCreated, events.EventActivityLog}, h.events.types())
}

func TestCreateReportsEveryViolation(t *testing.T) {
	h := newHarness(t)

	_, err := h.tickets.Create(context.Background(), TicketInput{Title: "ab", Status: "done", Priority: domain.TicketPriorityLow}, "")
	require.Error(t, err)

	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.ElementsMatch(t, []string{
		"title must be at least 3 chars",
		"description must be at least 3 chars",
		"status must be one of open, in_progress, review, closed",
	}, de.Violations)
	assert.Empty(t, h.tickets.List(context.Background()))
}

func TestPatchDiffContainsOnlyChangedFields(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket := h.create(t, "Patch me")
	h.events.reset()

	status := domain.TicketStatusClosed
	updated, err := h.tickets.Patch(ctx, ticket.ID, TicketPatch{
		Status: &status,
		Title:  strPtr(" Patch me "),
	}, "alex")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	history, err := h.tickets.History(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	latest := history[0]
	assert.Equal(t, domain.ActionUpdated, latest.Action)
	assert.Equal(t, "alex", latest.User)
	assert.Equal(t, domain.Changes{
		"status": {From: domain.TicketStatusOpen, To: domain.TicketStatusClosed},
	}, latest.Changes)

	assert.Equal(t, []events.EventType{events.EventTicketUpdated, events.EventActivityLog}, h.events.types())
}

func TestPatchTagsCompareAsSet(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	in := validInput("Tagged")
	in.Tags = []string{"a", "b"}
	ticket, err := h.tickets.Create(ctx, in, "")
	require.NoError(t, err)

	reordered := []string{"b", "a"}
	_, err = h.tickets.Patch(ctx, ticket.ID, TicketPatch{Tags: &reordered}, "")
	require.NoError(t, err)

	history, _ := h.tickets.History(ctx, ticket.ID)
	assert.Len(t, history, 1, "a reordered tag set is not a change")
}

func TestPatchValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket := h.create(t, "Validate")

	_, err := h.tickets.Patch(ctx, ticket.ID, TicketPatch{}, "")
	require.Error(t, err)
	assert.Equal(t, []string{"nothing to update"}, apperrors.ToDomainError(err).Violations)

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	_, err = h.tickets.Patch(ctx, ticket.ID, TicketPatch{Assignee: strPtr(string(long))}, "")
	require.Error(t, err)
	assert.Equal(t, []string{"assignee must be at most 50 chars"}, apperrors.ToDomainError(err).Violations)

	_, err = h.tickets.Patch(ctx, "missing", TicketPatch{}, "")
	assert.True(t, apperrors.IsNotFound(err), "missing ticket is reported before validation")
}

func TestPatchDueDateNullClears(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	due := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	in := validInput("Due")
	in.DueDate = &due
	ticket, err := h.tickets.Create(ctx, in, "")
	require.NoError(t, err)

	updated, err := h.tickets.Patch(ctx, ticket.ID, TicketPatch{DueDateSet: true}, "")
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	history, _ := h.tickets.History(ctx, ticket.ID)
	require.Contains(t, history[0].Changes, "dueDate")
}

func TestReplaceChecksExistenceFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.tickets.Replace(ctx, "nope", TicketInput{}, "")
	assert.True(t, apperrors.IsNotFound(err))

	ticket := h.create(t, "Replace me")
	in := validInput("Replaced")
	in.Assignee = "Sam"
	updated, err := h.tickets.Replace(ctx, ticket.ID, in, "")
	require.NoError(t, err)
	assert.Equal(t, "Replaced", updated.Title)
	assert.Equal(t, "Sam", updated.Assignee)

	history, _ := h.tickets.History(ctx, ticket.ID)
	assert.Equal(t, domain.Changes{
		"title":    {From: "Replace me", To: "Replaced"},
		"assignee": {From: "", To: "Sam"},
	}, history[0].Changes)
}

func TestDeleteCascades(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.create(t, "Ticket A")
	b := h.create(t, "Ticket B")

	_, err := h.links.Link(ctx, a.ID, b.ID, domain.RelationshipBlocks, "")
	require.NoError(t, err)
	_, err = h.comments.Add(ctx, a.ID, "first", "")
	require.NoError(t, err)
	_, err = h.comments.Add(ctx, b.ID, "keep me", "")
	require.NoError(t, err)

	require.NoError(t, h.tickets.Delete(ctx, a.ID, "remover"))

	_, err = h.tickets.Get(ctx, a.ID)
	assert.True(t, apperrors.IsNotFound(err))

	remaining, err := h.tickets.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining.RelatedTickets)

	bComments, err := h.comments.List(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, bComments, 1)
	require.NoError(t, h.store.View(ctx, func(doc *persistence.Document) error {
		assert.Len(t, doc.Comments, 1)
		return nil
	}))

	history, err := h.tickets.History(ctx, a.ID)
	require.NoError(t, err, "history outlives the ticket")
	assert.Equal(t, domain.ActionDeleted, history[0].Action)
	require.NotNil(t, history[0].Ticket)
	assert.Equal(t, "Ticket A", history[0].Ticket.Title)

	bHistory, _ := h.tickets.History(ctx, b.ID)
	assert.Equal(t, domain.ActionUpdated, bHistory[0].Action)
	assert.Contains(t, bHistory[0].Changes, "relatedTickets")

	assert.True(t, apperrors.IsNotFound(h.tickets.Delete(ctx, a.ID, "")))
}

func TestHistoryUnknownTicket(t *testing.T) {
	h := newHarness(t)
	_, err := h.tickets.History(context.Background(), "ghost")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestBulkDeleteReportsPerID(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	x := h.create(t, "Ticket X")
	z := h.create(t, "Ticket Z")

	res, err := h.tickets.BulkApply(ctx, BulkDelete, []string{x.ID, "Y", z.ID}, TicketPatch{}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{x.ID, z.ID}, res.Success)
	assert.Equal(t, []string{"Y"}, res.Failed)
	assert.Empty(t, h.tickets.List(ctx))

	history, _ := h.tickets.History(ctx, x.ID)
	assert.Equal(t, domain.SystemUser, history[0].User)
}

func TestBulkUpdate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.create(t, "Ticket A")
	b := h.create(t, "Ticket B")

	priority := domain.TicketPriorityUrgent
	res, err := h.tickets.BulkApply(ctx, BulkUpdate, []string{a.ID, b.ID, "gone"}, TicketPatch{Priority: &priority}, "ops")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, res.Success)
	assert.Equal(t, []string{"gone"}, res.Failed)

	history, _ := h.tickets.History(ctx, b.ID)
	assert.Equal(t, domain.ActionBulkUpdated, history[0].Action)
	assert.Equal(t, "ops", history[0].User)
	assert.Equal(t, domain.Changes{"priority": {From: domain.TicketPriorityMedium, To: domain.TicketPriorityUrgent}}, history[0].Changes)
}

func TestBulkRejectsBadRequests(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.tickets.BulkApply(ctx, "archive", []string{"a"}, TicketPatch{}, "")
	assert.Equal(t, apperrors.CodeInvalidOperation, apperrors.ToDomainError(err).Code)

	_, err = h.tickets.BulkApply(ctx, BulkDelete, nil, TicketPatch{}, "")
	assert.True(t, apperrors.IsValidation(err))

	_, err = h.tickets.BulkApply(ctx, BulkUpdate, []string{"a"}, TicketPatch{}, "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestConcurrentPatchesLoseNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket := h.create(t, "Contended")

	const writers = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.tickets.Patch(ctx, ticket.ID, TicketPatch{Assignee: strPtr(fmt.Sprintf("user-%d", i))}, "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	history, err := h.tickets.History(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, history, writers+1)
}

func TestFailedFlushLeavesStateUntouched(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket := h.create(t, "Durable")

	h.backend.SetFailure(errors.New("disk full"))
	h.events.reset()

	_, err := h.tickets.Patch(ctx, ticket.ID, TicketPatch{Title: strPtr("Changed")}, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInternal, apperrors.ToDomainError(err).Code)
	assert.Empty(t, h.events.types(), "nothing is broadcast for a failed write")

	got, err := h.tickets.Get(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Durable", got.Title)
}

func TestQueryUsesServiceClock(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, "Alpha")
	h.create(t, "Beta")

	res := h.tickets.Query(ctx, query.Params{Q: "alp"})
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Alpha", res.Data[0].Title)
}
