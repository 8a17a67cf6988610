package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/incident-portal/internal/domain"
	"github.com/spec-kit/incident-portal/internal/events"
)

// syncDispatcher runs handlers inline on Publish, so tests observe delivery
// without goroutine coordination.
type syncDispatcher struct {
	listeners map[events.EventType][]events.EventHandler
}

func newSyncDispatcher() *syncDispatcher {
	return &syncDispatcher{listeners: map[events.EventType][]events.EventHandler{}}
}

func (d *syncDispatcher) Publish(ctx context.Context, event events.Event) error {
	for _, handler := range d.listeners[event.Type] {
		if err := handler(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (d *syncDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

func (d *syncDispatcher) Close() {}

type sentMail struct {
	recipient string
	subject   string
	body      string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, recipient, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{recipient: recipient, subject: subject, body: body})
	return nil
}

func newNotificationFixture() (*syncDispatcher, *fakeIncidentRepo, *fakeSender) {
	dispatcher := newSyncDispatcher()
	incidents := newFakeIncidentRepo()
	users := &fakeUserRepo{users: map[int64]domain.User{
		manager.ID:  *manager,
		tech.ID:     *tech,
		reporter.ID: *reporter,
		4:           {ID: 4, Username: "ops", Email: "", Role: domain.RoleManager},
	}}
	sender := &fakeSender{}
	svc := NewNotificationService(NotificationDependencies{
		Dispatcher:   dispatcher,
		IncidentRepo: incidents,
		UserRepo:     users,
		Sender:       sender,
	}, zap.NewNop())
	svc.RegisterHandlers()
	return dispatcher, incidents, sender
}

func storeIncident(t *testing.T, repo *fakeIncidentRepo, incident domain.Incident) *domain.Incident {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &incident))
	return &incident
}

func TestNotifyIncidentCreatedMailsManagersWithEmail(t *testing.T) {
	dispatcher, incidents, sender := newNotificationFixture()
	incident := storeIncident(t, incidents, domain.Incident{
		Title: "Disk full", Description: "root fs at 100%",
		Status: domain.IncidentStatusNew, Priority: domain.IncidentPriorityHigh,
		ReporterID: reporter.ID,
	})

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:       events.EventIncidentCreated,
		IncidentID: incident.ID,
		ActorID:    reporter.ID,
		Payload: events.IncidentCreatedPayload{
			Title: incident.Title, Priority: incident.Priority, ReporterID: reporter.ID,
		},
	})
	require.NoError(t, err)

	// user 4 is a manager without an email and must be skipped
	require.Len(t, sender.sent, 1)
	assert.Equal(t, manager.Email, sender.sent[0].recipient)
	assert.Contains(t, sender.sent[0].subject, "Disk full")
}

func TestNotifyStatusChangedMailsReporterAndAssignee(t *testing.T) {
	dispatcher, incidents, sender := newNotificationFixture()
	assigneeID := tech.ID
	incident := storeIncident(t, incidents, domain.Incident{
		Title: "Disk full", Description: "root fs at 100%",
		Status: domain.IncidentStatusResolved, Priority: domain.IncidentPriorityHigh,
		ReporterID: reporter.ID, AssignedToID: &assigneeID,
	})

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:       events.EventIncidentStatusChanged,
		IncidentID: incident.ID,
		ActorID:    manager.ID,
		Payload: events.IncidentStatusChangedPayload{
			OldStatus: domain.IncidentStatusInProgress,
			NewStatus: domain.IncidentStatusResolved,
		},
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 2)
	recipients := []string{sender.sent[0].recipient, sender.sent[1].recipient}
	assert.Contains(t, recipients, reporter.Email)
	assert.Contains(t, recipients, tech.Email)
}

func TestNotifyStatusChangedSkipsActingAssignee(t *testing.T) {
	dispatcher, incidents, sender := newNotificationFixture()
	assigneeID := tech.ID
	incident := storeIncident(t, incidents, domain.Incident{
		Title: "Disk full", Description: "root fs at 100%",
		Status: domain.IncidentStatusInProgress, Priority: domain.IncidentPriorityHigh,
		ReporterID: reporter.ID, AssignedToID: &assigneeID,
	})

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:       events.EventIncidentStatusChanged,
		IncidentID: incident.ID,
		ActorID:    tech.ID,
		Payload: events.IncidentStatusChangedPayload{
			OldStatus: domain.IncidentStatusNew,
			NewStatus: domain.IncidentStatusInProgress,
		},
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, reporter.Email, sender.sent[0].recipient)
}

func TestNotifyAssignedAndUnassigned(t *testing.T) {
	dispatcher, incidents, sender := newNotificationFixture()
	incident := storeIncident(t, incidents, domain.Incident{
		Title: "Disk full", Description: "root fs at 100%",
		Status: domain.IncidentStatusNew, Priority: domain.IncidentPriorityHigh,
		ReporterID: reporter.ID,
	})

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:       events.EventIncidentAssigned,
		IncidentID: incident.ID,
		ActorID:    tech.ID,
		Payload:    events.IncidentAssignedPayload{AssigneeID: tech.ID},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, tech.Email, sender.sent[0].recipient)
	assert.Contains(t, sender.sent[0].subject, "assigned to you")

	err = dispatcher.Publish(context.Background(), events.Event{
		Type:       events.EventIncidentUnassigned,
		IncidentID: incident.ID,
		ActorID:    manager.ID,
		Payload:    events.IncidentUnassignedPayload{PreviousAssigneeID: tech.ID},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, tech.Email, sender.sent[1].recipient)
	assert.Contains(t, sender.sent[1].subject, "unassigned")
}

func TestNotifySkipsDeletedIncident(t *testing.T) {
	dispatcher, _, sender := newNotificationFixture()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:       events.EventIncidentAssigned,
		IncidentID: 99,
		ActorID:    tech.ID,
		Payload:    events.IncidentAssignedPayload{AssigneeID: tech.ID},
	})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestNotifySendFailureIsSwallowed(t *testing.T) {
	dispatcher, incidents, sender := newNotificationFixture()
	sender.err = errors.New("smtp unreachable")
	incident := storeIncident(t, incidents, domain.Incident{
		Title: "Disk full", Description: "root fs at 100%",
		Status: domain.IncidentStatusNew, Priority: domain.IncidentPriorityHigh,
		ReporterID: reporter.ID,
	})

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:       events.EventIncidentAssigned,
		IncidentID: incident.ID,
		ActorID:    tech.ID,
		Payload:    events.IncidentAssignedPayload{AssigneeID: tech.ID},
	})
	assert.NoError(t, err, "send failures never propagate")
}
