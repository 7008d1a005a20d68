package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded    EventType = "login_succeeded"
	EventLoginFailed       EventType = "login_failed"
	EventLogout            EventType = "logout"
	EventSessionTerminated EventType = "session_terminated"
	EventAccessDenied      EventType = "access_denied"
)

// Event represents a security event emitted by the auth and authorization
// layers. Recording is best effort; emitters never block on subscribers.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ActorID    *string     `json:"actor_id,omitempty"`
	ActorEmail *string     `json:"actor_email,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// NewEvent stamps a payload with identity and time.
func NewEvent(eventType EventType, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// WithActor attaches the acting identity to the event.
func (e Event) WithActor(id, email string) Event {
	if id != "" {
		e.ActorID = &id
	}
	if email != "" {
		e.ActorEmail = &email
	}
	return e
}

// LoginSucceededPayload payload.
type LoginSucceededPayload struct {
	Role            string `json:"role"`
	ObservedAddress string `json:"observed_address"`
}

// LoginFailedPayload payload.
type LoginFailedPayload struct {
	Email           string `json:"email"`
	Reason          string `json:"reason"`
	ObservedAddress string `json:"observed_address"`
}

// SessionTerminatedPayload payload.
type SessionTerminatedPayload struct {
	Reason          string `json:"reason"`
	ObservedAddress string `json:"observed_address"`
}

// AccessDeniedPayload payload.
type AccessDeniedPayload struct {
	Resource   string `json:"resource"`
	ResourceID string `json:"resource_id,omitempty"`
	Reason     string `json:"reason"`
}
