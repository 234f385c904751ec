package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/events"
)

type recordingHandler struct {
	mu   sync.Mutex
	seen []events.EventType
}

func (r *recordingHandler) Handle(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, event.Type)
	if event.TicketID == "bad" {
		return errors.New("mailer down")
	}
	return nil
}

func (r *recordingHandler) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.EventType(nil), r.seen...)
}

func TestNotificationWorkerDeliversSubscribedEvents(t *testing.T) {
	handler := &recordingHandler{}
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	w := NewNotificationWorker(handler, 8, nil)
	w.Subscribe(dispatcher, events.EventTicketCreated, events.EventCommentAdded)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	ctxPub := context.Background()
	require.NoError(t, dispatcher.Publish(ctxPub, events.Event{Type: events.EventTicketCreated, TicketID: "bad"}))
	require.NoError(t, dispatcher.Publish(ctxPub, events.Event{Type: events.EventTicketDeleted}))
	require.NoError(t, dispatcher.Publish(ctxPub, events.Event{Type: events.EventCommentAdded}))

	assert.Eventually(t, func() bool { return len(handler.types()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []events.EventType{events.EventTicketCreated, events.EventCommentAdded}, handler.types())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestNotificationWorkerDropsWhenFull(t *testing.T) {
	handler := &recordingHandler{}
	w := NewNotificationWorker(handler, 1, nil)

	require.NoError(t, w.enqueue(context.Background(), events.Event{Type: events.EventTicketCreated}))
	require.NoError(t, w.enqueue(context.Background(), events.Event{Type: events.EventTicketUpdated}))
	assert.Len(t, w.queue, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))
	assert.Equal(t, []events.EventType{events.EventTicketCreated}, handler.types())
}
