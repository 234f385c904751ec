package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/events"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
	"github.com/AbhignaKuchukulla/Issueflow/internal/repository"
	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

// Dependencies bundles what every document-backed service needs.
type Dependencies struct {
	Store      *persistence.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

type base struct {
	store      *persistence.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func newBase(deps Dependencies) base {
	b := base{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	if b.now == nil {
		b.now = func() time.Time { return time.Now().UTC() }
	}
	return b
}

// outbox collects events raised inside a transaction; they are published only
// after the document was written.
type outbox struct {
	events   []events.Event
	activity []events.Event
}

func (o *outbox) emit(typ events.EventType, ticketID, user string, at time.Time, payload any) {
	o.events = append(o.events, events.Event{
		Type:      typ,
		TicketID:  ticketID,
		User:      user,
		Timestamp: at,
		Payload:   payload,
	})
}

// record appends a ledger entry and queues the matching activity:log event.
func (o *outbox) record(doc *persistence.Document, ticketID string, action domain.HistoryAction, changes domain.Changes, snapshot *domain.Ticket, user string, at time.Time) domain.TicketHistory {
	entry := repository.History(doc).Append(ticketID, action, changes, snapshot, user, at)
	o.activity = append(o.activity, events.Event{
		Type:      events.EventActivityLog,
		TicketID:  ticketID,
		User:      entry.User,
		Timestamp: at,
		Payload:   entry,
	})
	return entry
}

func (b base) read(ctx context.Context, fn func(doc *persistence.Document) error) error {
	return b.store.View(ctx, fn)
}

// update runs fn in one store transaction and publishes its events on success.
func (b base) update(ctx context.Context, fn func(doc *persistence.Document, out *outbox) error) error {
	var out outbox
	err := b.store.Update(ctx, func(doc *persistence.Document) error {
		out = outbox{}
		return fn(doc, &out)
	})
	if err != nil {
		return b.mapError(err)
	}
	b.publish(ctx, out)
	return nil
}

func (b base) publish(ctx context.Context, out outbox) {
	if b.dispatcher == nil {
		return
	}
	for _, evt := range append(out.events, out.activity...) {
		_ = b.dispatcher.Publish(ctx, evt)
	}
}

func (b base) mapError(err error) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	b.logger.Error("document transaction failed", zap.Error(err))
	return apperrors.NewInternalError(err)
}

// attribution resolves the user a change is credited to.
func attribution(user, fallback string) string {
	if u := strings.TrimSpace(user); u != "" {
		return u
	}
	return fallback
}
