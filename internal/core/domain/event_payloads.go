package domain

import (
	"time"

	"github.com/google/uuid"
)

// ConnectedPayload acknowledges a successful handshake.
type ConnectedPayload struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"userId"`
}

// JobRoomPayload acknowledges joining or leaving a job room.
type JobRoomPayload struct {
	JobID int64 `json:"jobId"`
}

// ApplicationStatusPayload announces a status change on an application.
type ApplicationStatusPayload struct {
	ApplicationID int64             `json:"applicationId"`
	JobID         int64             `json:"jobId"`
	ApplicantID   uuid.UUID         `json:"applicantId"`
	Status        ApplicationStatus `json:"status"`
	Notes         string            `json:"notes,omitempty"`
	UpdatedBy     uuid.UUID         `json:"updatedBy"`
	UpdatedAt     *time.Time        `json:"updatedAt,omitempty"`
}

// JobAlertPayload announces a newly posted job.
type JobAlertPayload struct {
	JobID       int64  `json:"jobId"`
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
	Location    string `json:"location,omitempty"`
}

// DirectMessagePayload carries a non-persisted direct message.
type DirectMessagePayload struct {
	SenderID    uuid.UUID `json:"senderId"`
	SenderName  string    `json:"senderName"`
	RecipientID uuid.UUID `json:"recipientId"`
	Message     string    `json:"message"`
	JobID       *int64    `json:"jobId,omitempty"`
}

// TypingPayload relays a typing indicator to the recipient.
type TypingPayload struct {
	UserID uuid.UUID `json:"userId"`
	Typing bool      `json:"typing"`
}

// DisconnectedPayload announces that a user's connection closed.
type DisconnectedPayload struct {
	UserID uuid.UUID `json:"userId"`
}

// ErrorPayload is a scoped error sent only to the triggering connection.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
