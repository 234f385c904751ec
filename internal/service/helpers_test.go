package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/config"
	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/events"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
)

// stepClock advances one second on every read.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) handle(_ context.Context, e events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *eventLog) types() []events.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]events.EventType, len(l.events))
	for i, e := range l.events {
		out[i] = e.Type
	}
	return out
}

func (l *eventLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

type harness struct {
	store    *persistence.Store
	backend  *persistence.MemoryBackend
	events   *eventLog
	clock    *stepClock
	deps     Dependencies
	tickets  *TicketService
	links    *LinkService
	comments *CommentService
	filters  *FilterService
	stats    *AnalyticsService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := persistence.NewMemoryBackend()
	store, err := persistence.Open(context.Background(), backend, zap.NewNop())
	require.NoError(t, err)

	log := &eventLog{}
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	dispatcher.SubscribeAll(log.handle)

	clock := &stepClock{t: time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)}
	deps := Dependencies{Store: store, Dispatcher: dispatcher, Logger: zap.NewNop(), Clock: clock.Now}
	return &harness{
		store:    store,
		backend:  backend,
		events:   log,
		clock:    clock,
		deps:     deps,
		tickets:  NewTicketService(deps),
		links:    NewLinkService(deps),
		comments: NewCommentService(deps),
		filters:  NewFilterService(deps),
		stats:    NewAnalyticsService(deps),
	}
}

func (h *harness) auth() *AuthService {
	return NewAuthService(config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5, BcryptCost: 4}, h.deps)
}

func validInput(title string) TicketInput {
	return TicketInput{
		Title:       title,
		Description: "Something is broken",
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityMedium,
	}
}

func (h *harness) create(t *testing.T, title string) domain.Ticket {
	t.Helper()
	ticket, err := h.tickets.Create(context.Background(), validInput(title), "tester")
	require.NoError(t, err)
	return ticket
}

func strPtr(s string) *string { return &s }
