package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
)

func TestAnalyticsSummary(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	in := validInput("Overdue one")
	in.Assignee = "Alex"
	in.DueDate = &past
	_, err := h.tickets.Create(ctx, in, "")
	require.NoError(t, err)

	in = validInput("Closed one")
	in.Assignee = "Alex"
	in.Status = domain.TicketStatusClosed
	in.DueDate = &past
	_, err = h.tickets.Create(ctx, in, "")
	require.NoError(t, err)

	in = validInput("Nobody")
	in.Priority = domain.TicketPriorityUrgent
	_, err = h.tickets.Create(ctx, in, "")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		h.create(t, "Filler")
	}

	sum := h.stats.Summary(ctx)
	assert.Equal(t, 13, sum.Total)
	assert.Equal(t, 12, sum.ByStatus[domain.TicketStatusOpen])
	assert.Equal(t, 1, sum.ByStatus[domain.TicketStatusClosed])
	assert.Equal(t, 0, sum.ByStatus[domain.TicketStatusReview])
	assert.Equal(t, 1, sum.ByPriority[domain.TicketPriorityUrgent])
	assert.Equal(t, 1, sum.Overdue)
	assert.Equal(t, AssigneeStats{Total: 2, Open: 1, Closed: 1}, sum.AssigneeStats["Alex"])
	assert.Equal(t, 11, sum.AssigneeStats[UnassignedLabel].Total)
	assert.Len(t, sum.RecentActivity, RecentActivityLimit)

	assert.Len(t, h.stats.Activity(ctx, 3), 3)
	assert.Len(t, h.stats.Activity(ctx, 0), RecentActivityLimit)
}
