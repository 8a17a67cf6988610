package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/incident-portal/internal/domain"
)

func TestNewIncidentNotifiesManagersWithEmail(t *testing.T) {
	incident := &domain.Incident{ID: 7, Title: "Disk full", Description: "root fs at 100%", Priority: domain.IncidentPriorityHigh}
	reporter := &domain.User{ID: 3, Username: "reporter_bob"}
	managers := []domain.User{
		{ID: 1, Username: "admin", Email: "admin@example.com", Role: domain.RoleManager},
		{ID: 4, Username: "ops", Email: "", Role: domain.RoleManager},
	}

	msgs := NewIncident(incident, reporter, managers)
	require.Len(t, msgs, 1)
	assert.Equal(t, "admin@example.com", msgs[0].Recipient)
	assert.Contains(t, msgs[0].Subject, "Disk full")
	assert.Contains(t, msgs[0].Body, "reporter_bob")
	assert.Contains(t, msgs[0].Body, "HIGH")
	assert.Equal(t, int64(7), msgs[0].IncidentID)
}

func TestAssignedSkipsEmptyEmail(t *testing.T) {
	incident := &domain.Incident{ID: 7, Title: "Disk full"}

	assert.Empty(t, Assigned(incident, nil))
	assert.Empty(t, Assigned(incident, &domain.User{ID: 2, Username: "alice"}))

	msgs := Assigned(incident, &domain.User{ID: 2, Username: "alice", Email: "alice@example.com"})
	require.Len(t, msgs, 1)
	assert.Equal(t, "alice@example.com", msgs[0].Recipient)
	assert.Contains(t, msgs[0].Subject, "assigned to you")
}

func TestUnassignedNotifiesPreviousAssignee(t *testing.T) {
	incident := &domain.Incident{ID: 7, Title: "Disk full"}

	msgs := Unassigned(incident, &domain.User{ID: 2, Username: "alice", Email: "alice@example.com"})
	require.Len(t, msgs, 1)
	assert.Equal(t, "alice@example.com", msgs[0].Recipient)
	assert.Contains(t, msgs[0].Subject, "unassigned")
}

func TestStatusChangedRecipients(t *testing.T) {
	incident := &domain.Incident{ID: 7, Title: "Disk full"}
	reporter := &domain.User{ID: 3, Username: "reporter_bob", Email: "bob@example.com"}
	assignee := &domain.User{ID: 2, Username: "alice", Email: "alice@example.com"}

	t.Run("reporter and assignee when actor differs", func(t *testing.T) {
		msgs := StatusChanged(incident, domain.IncidentStatusInProgress, domain.IncidentStatusResolved, reporter, assignee, 1)
		require.Len(t, msgs, 2)
		assert.Equal(t, "bob@example.com", msgs[0].Recipient)
		assert.Equal(t, "alice@example.com", msgs[1].Recipient)
	})

	t.Run("no self-notification for acting assignee", func(t *testing.T) {
		msgs := StatusChanged(incident, domain.IncidentStatusNew, domain.IncidentStatusInProgress, reporter, assignee, assignee.ID)
		require.Len(t, msgs, 1)
		assert.Equal(t, "bob@example.com", msgs[0].Recipient)
	})

	t.Run("reporter without email yields nothing", func(t *testing.T) {
		noMail := &domain.User{ID: 3, Username: "reporter_bob"}
		msgs := StatusChanged(incident, domain.IncidentStatusNew, domain.IncidentStatusClosed, noMail, nil, 1)
		assert.Empty(t, msgs)
	})
}
