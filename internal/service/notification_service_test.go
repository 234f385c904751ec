package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbhignaKuchukulla/Issueflow/internal/config"
	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	"github.com/AbhignaKuchukulla/Issueflow/internal/events"
)

type sentMail struct {
	to, subject string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject})
	return nil
}

func (m *fakeMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, s := range m.sent {
		out[i] = s.to
	}
	return out
}

func TestNotificationsForAssignmentAndMentions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc := NewNotificationService(h.deps, mailer, config.NotificationConfig{EmailFrom: "noreply@example.com"})
	for _, typ := range NotificationEvents {
		h.deps.Dispatcher.Subscribe(typ, svc.Handle)
	}

	_, _, err := h.auth().Signup(ctx, "Sam", "sam@example.com", "secret1")
	require.NoError(t, err)

	ticket := h.create(t, "Unassigned")
	assert.Empty(t, mailer.recipients())

	_, err = h.tickets.Patch(ctx, ticket.ID, TicketPatch{Assignee: strPtr("sam")}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"sam@example.com"}, mailer.recipients())

	_, err = h.tickets.Patch(ctx, ticket.ID, TicketPatch{Title: strPtr("Renamed")}, "")
	require.NoError(t, err)
	assert.Len(t, mailer.recipients(), 1, "no notice without an assignee change")

	_, err = h.comments.Add(ctx, ticket.ID, "ping @Sam and @stranger", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"sam@example.com", "sam@example.com"}, mailer.recipients())
}

func TestOverdueDigest(t *testing.T) {
	h := newHarness(t)
	mailer := &fakeMailer{}
	svc := NewNotificationService(h.deps, mailer, config.NotificationConfig{})

	due := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SendOverdueDigest(context.Background(), "ops@example.com", []domain.Ticket{{ID: "t1", Title: "Late", DueDate: &due}}))
	require.NoError(t, svc.SendOverdueDigest(context.Background(), "ops@example.com", nil))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "1 overdue ticket(s)", mailer.sent[0].subject)
}

func TestHandleIgnoresOtherEvents(t *testing.T) {
	h := newHarness(t)
	mailer := &fakeMailer{}
	svc := NewNotificationService(h.deps, mailer, config.NotificationConfig{})

	require.NoError(t, svc.Handle(context.Background(), events.Event{Type: events.EventTicketDeleted}))
	require.NoError(t, svc.Handle(context.Background(), events.Event{Type: events.EventTicketCreated, Payload: "unexpected"}))
	assert.Empty(t, mailer.recipients())
}
