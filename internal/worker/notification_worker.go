package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/events"
)

const defaultNotificationQueue = 256

// NotificationHandler turns one event into notices.
type NotificationHandler interface {
	Handle(ctx context.Context, event events.Event) error
}

// NotificationWorker delivers notices on its own goroutine so publishers
// never wait on a mailer. Events arriving while the queue is full are dropped.
type NotificationWorker struct {
	handler NotificationHandler
	queue   chan events.Event
	logger  *zap.Logger
}

// NewNotificationWorker builds a worker with a bounded queue.
func NewNotificationWorker(handler NotificationHandler, queueSize int, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = defaultNotificationQueue
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		handler: handler,
		queue:   make(chan events.Event, queueSize),
		logger:  logger,
	}
}

// Subscribe queues every event of the given types.
func (w *NotificationWorker) Subscribe(d events.Dispatcher, types ...events.EventType) {
	for _, typ := range types {
		d.Subscribe(typ, w.enqueue)
	}
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event", string(event.Type)),
			zap.String("ticket_id", event.TicketID))
	}
	return nil
}

// Run handles queued events until ctx is done, then drains what is already queued.
func (w *NotificationWorker) Run(ctx context.Context) error {
	for {
		select {
		case event := <-w.queue:
			w.handle(ctx, event)
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			return nil
		}
	}
}

func (w *NotificationWorker) drain(ctx context.Context) {
	for {
		select {
		case event := <-w.queue:
			w.handle(ctx, event)
		default:
			return
		}
	}
}

func (w *NotificationWorker) handle(ctx context.Context, event events.Event) {
	if err := w.handler.Handle(ctx, event); err != nil {
		w.logger.Warn("notification failed",
			zap.String("event", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}
