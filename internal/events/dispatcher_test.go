package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesTypedAndWildcardHandlers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var typed, all []EventType
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		typed = append(typed, e.Type)
		return errors.New("ignored")
	})
	d.SubscribeAll(func(_ context.Context, e Event) error {
		all = append(all, e.Type)
		require.NotEmpty(t, e.ID)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventCommentAdded}))

	assert.Equal(t, []EventType{EventTicketCreated}, typed)
	assert.Equal(t, []EventType{EventTicketCreated, EventCommentAdded}, all)
}
