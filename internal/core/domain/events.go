package domain

import "time"

// EventType defines the type of a real-time event.
type EventType string

// Outbound event types.
const (
	EventConnected                EventType = "connected"
	EventJoinedJobRoom            EventType = "joined_job_room"
	EventLeftJobRoom              EventType = "left_job_room"
	EventApplicationStatusUpdated EventType = "application_status_updated"
	EventApplicationUpdated       EventType = "application_updated"
	EventApplicationUpdateSuccess EventType = "application_update_success"
	EventNewJobAlert              EventType = "new_job_alert"
	EventNewJobPostedAdmin        EventType = "new_job_posted_admin"
	EventNewMessage               EventType = "new_message"
	EventMessageSent              EventType = "message_sent"
	EventUserTyping               EventType = "user_typing"
	EventUserDisconnected         EventType = "user_disconnected"
	EventError                    EventType = "error"
)

// Event is the payload sent over the websocket. Events are transient:
// generated at send time, delivered best-effort, never queued or replayed.
type Event struct {
	Type      EventType `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent builds an event stamped with the current time.
func NewEvent(t EventType, payload any) Event {
	return Event{
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}
