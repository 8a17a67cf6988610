package notify

import (
	"fmt"

	"github.com/spec-kit/incident-portal/internal/domain"
)

// Message is one derived notification, ready for asynchronous delivery.
type Message struct {
	Recipient  string
	Subject    string
	Body       string
	IncidentID int64
}

// Derivation is pure: callers resolve the users involved, these functions
// translate the state delta into messages. Recipients without an email
// address are skipped.

// NewIncident notifies every manager about a freshly reported incident.
func NewIncident(incident *domain.Incident, reporter *domain.User, managers []domain.User) []Message {
	var msgs []Message
	for _, m := range managers {
		if m.Email == "" {
			continue
		}
		msgs = append(msgs, Message{
			Recipient: m.Email,
			Subject:   fmt.Sprintf("New Incident #%d: %s", incident.ID, incident.Title),
			Body: fmt.Sprintf("%s reported a new incident with priority %s.\n\n%s",
				reporterName(reporter), incident.Priority, incident.Description),
			IncidentID: incident.ID,
		})
	}
	return msgs
}

// Assigned notifies the new assignee.
func Assigned(incident *domain.Incident, assignee *domain.User) []Message {
	if assignee == nil || assignee.Email == "" {
		return nil
	}
	return []Message{{
		Recipient: assignee.Email,
		Subject:   fmt.Sprintf("Incident #%d assigned to you: %s", incident.ID, incident.Title),
		Body: fmt.Sprintf("You have been assigned incident #%d (%s, priority %s).",
			incident.ID, incident.Title, incident.Priority),
		IncidentID: incident.ID,
	}}
}

// Unassigned notifies the previous assignee that the incident was taken off
// their plate.
func Unassigned(incident *domain.Incident, previous *domain.User) []Message {
	if previous == nil || previous.Email == "" {
		return nil
	}
	return []Message{{
		Recipient:  previous.Email,
		Subject:    fmt.Sprintf("Incident #%d unassigned: %s", incident.ID, incident.Title),
		Body:       fmt.Sprintf("You are no longer assigned to incident #%d (%s).", incident.ID, incident.Title),
		IncidentID: incident.ID,
	}}
}

// StatusChanged notifies the reporter, and the current assignee unless the
// assignee is the actor who made the change.
func StatusChanged(incident *domain.Incident, oldStatus, newStatus domain.IncidentStatus, reporter, assignee *domain.User, actorID int64) []Message {
	subject := fmt.Sprintf("Incident #%d status: %s", incident.ID, newStatus)
	body := fmt.Sprintf("Incident #%d (%s) moved from %s to %s.",
		incident.ID, incident.Title, oldStatus, newStatus)

	var msgs []Message
	if reporter != nil && reporter.Email != "" {
		msgs = append(msgs, Message{
			Recipient:  reporter.Email,
			Subject:    subject,
			Body:       body,
			IncidentID: incident.ID,
		})
	}
	if assignee != nil && assignee.ID != actorID && assignee.Email != "" {
		msgs = append(msgs, Message{
			Recipient:  assignee.Email,
			Subject:    subject,
			Body:       body,
			IncidentID: incident.ID,
		})
	}
	return msgs
}

func reporterName(reporter *domain.User) string {
	if reporter == nil {
		return "someone"
	}
	return reporter.Username
}
