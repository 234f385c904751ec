package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/events"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
	"github.com/AbhignaKuchukulla/Issueflow/internal/service"
)

func TestSeedPopulatesStore(t *testing.T) {
	ctx := context.Background()
	store, err := persistence.Open(ctx, persistence.NewMemoryBackend(), zap.NewNop())
	require.NoError(t, err)
	deps := service.Dependencies{Store: store, Dispatcher: events.NewInMemoryDispatcher(zap.NewNop()), Logger: zap.NewNop()}
	tickets := service.NewTicketService(deps)

	created, comments, err := seed(ctx, tickets, service.NewCommentService(deps), service.NewLinkService(deps))
	require.NoError(t, err)
	assert.Equal(t, len(sampleTickets), created)
	assert.Equal(t, 4, comments)

	all := tickets.List(ctx)
	require.Len(t, all, len(sampleTickets))

	var blocked int
	for _, ticket := range all {
		for _, link := range ticket.RelatedTickets {
			if link.Type == domain.RelationshipBlockedBy {
				blocked++
			}
		}
	}
	assert.Equal(t, 1, blocked)
}
