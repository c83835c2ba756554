package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
	apperrors "github.com/hireloop/jobboard-backend/internal/core/errors"
	"github.com/hireloop/jobboard-backend/internal/core/ports"
	"github.com/hireloop/jobboard-backend/internal/infrastructure/metrics"
)

// Inbound client event types.
const (
	msgJoinJobRoom       = "join_job_room"
	msgLeaveJobRoom      = "leave_job_room"
	msgApplicationUpdate = "application_update"
	msgNewJobPosted      = "new_job_posted"
	msgSendMessage       = "send_message"
	msgTypingStart       = "typing_start"
	msgTypingStop        = "typing_stop"
)

// maxChatMessageLength caps direct message bodies.
const maxChatMessageLength = 4000

// clientMessage is the envelope for messages sent from the client.
type clientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type jobRoomRequest struct {
	JobID int64 `json:"jobId"`
}

type applicationUpdateRequest struct {
	ApplicationID int64  `json:"applicationId"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

type sendMessageRequest struct {
	RecipientID uuid.UUID `json:"recipientId"`
	Message     string    `json:"message"`
	JobID       *int64    `json:"jobId,omitempty"`
}

type typingRequest struct {
	RecipientID uuid.UUID `json:"recipientId"`
}

// EventRouter validates, authorizes and executes every inbound client
// event, then pushes the outcome through the broadcaster. Each handler
// failure becomes a scoped error event to the triggering connection only;
// it never reaches other sessions and never crashes the process.
type EventRouter struct {
	registry     *SessionRegistry
	rooms        *RoomManager
	broadcaster  ports.Broadcaster
	applications ports.ApplicationService
	users        ports.UserRepository
	jobs         ports.JobRepository
	metrics      *metrics.RealtimeMetrics
	logger       *slog.Logger
}

// NewEventRouter creates the router over its collaborators. The registry
// and room manager are constructed once at startup and shared with the
// handshake handler.
func NewEventRouter(
	registry *SessionRegistry,
	rooms *RoomManager,
	broadcaster ports.Broadcaster,
	applications ports.ApplicationService,
	users ports.UserRepository,
	jobs ports.JobRepository,
	m *metrics.RealtimeMetrics,
	logger *slog.Logger,
) *EventRouter {
	return &EventRouter{
		registry:     registry,
		rooms:        rooms,
		broadcaster:  broadcaster,
		applications: applications,
		users:        users,
		jobs:         jobs,
		metrics:      m,
		logger:       logger.With("component", "event_router"),
	}
}

// Connected acknowledges a successful handshake to the new connection.
func (r *EventRouter) Connected(c *Client) {
	r.sendTo(c, domain.EventConnected, domain.ConnectedPayload{
		Message: "connected",
		UserID:  c.User.ID,
	})
}

// Disconnect releases every trace of a connection: all room memberships,
// then the registry entry, then the send channel. Repeated calls are
// no-ops. Broadcasts addressed to the connection afterwards are silently
// dropped because its memberships are already gone.
func (r *EventRouter) Disconnect(c *Client) {
	r.rooms.ReleaseAll(c)
	removed := r.registry.Unregister(c.ID)
	c.Close()

	if removed == nil {
		return
	}

	r.metrics.ConnectionsActive.Dec()
	r.broadcaster.ToAll(domain.EventUserDisconnected, domain.DisconnectedPayload{
		UserID: c.User.ID,
	})
	r.logger.Info("connection closed",
		"connection_id", c.ID,
		"user_id", c.User.ID,
	)
}

// HandleMessage processes one inbound client event. Panics inside a handler
// are recovered here and surfaced as a scoped error to the sender.
func (r *EventRouter) HandleMessage(ctx context.Context, c *Client, raw []byte) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("handler panic recovered",
				"connection_id", c.ID,
				"panic", p,
			)
			r.sendError(c, "internal_error", "An unexpected error occurred")
		}
	}()

	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		r.sendError(c, "invalid_payload", "Malformed event")
		return
	}

	switch msg.Type {
	case msgJoinJobRoom, msgLeaveJobRoom, msgApplicationUpdate,
		msgNewJobPosted, msgSendMessage, msgTypingStart, msgTypingStop:
		r.metrics.EventsReceived.WithLabelValues(msg.Type).Inc()
	default:
		r.metrics.EventsReceived.WithLabelValues("unknown").Inc()
		r.sendError(c, "unknown_event", "Unknown event type")
		return
	}

	switch msg.Type {
	case msgJoinJobRoom:
		r.handleJoinJobRoom(c, msg.Payload)
	case msgLeaveJobRoom:
		r.handleLeaveJobRoom(c, msg.Payload)
	case msgApplicationUpdate:
		r.handleApplicationUpdate(ctx, c, msg.Payload)
	case msgNewJobPosted:
		r.handleNewJobPosted(ctx, c, msg.Payload)
	case msgSendMessage:
		r.handleSendMessage(ctx, c, msg.Payload)
	case msgTypingStart:
		r.handleTyping(c, msg.Payload, true)
	case msgTypingStop:
		r.handleTyping(c, msg.Payload, false)
	}
}

func (r *EventRouter) handleJoinJobRoom(c *Client, payload json.RawMessage) {
	var req jobRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil || req.JobID <= 0 {
		r.sendError(c, "validation_error", apperrors.ErrJobIDRequired.Error())
		return
	}

	r.rooms.Join(c, domain.JobRoom(req.JobID))
	r.sendTo(c, domain.EventJoinedJobRoom, domain.JobRoomPayload{JobID: req.JobID})
}

func (r *EventRouter) handleLeaveJobRoom(c *Client, payload json.RawMessage) {
	var req jobRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil || req.JobID <= 0 {
		r.sendError(c, "validation_error", apperrors.ErrJobIDRequired.Error())
		return
	}

	r.rooms.Leave(c, domain.JobRoom(req.JobID))
	r.sendTo(c, domain.EventLeftJobRoom, domain.JobRoomPayload{JobID: req.JobID})
}

func (r *EventRouter) handleApplicationUpdate(ctx context.Context, c *Client, payload json.RawMessage) {
	var req applicationUpdateRequest
	if err := json.Unmarshal(payload, &req); err != nil || req.ApplicationID <= 0 {
		r.sendError(c, "validation_error", apperrors.ErrInvalidPayload.Error())
		return
	}

	updated, err := r.applications.UpdateStatus(ctx, ports.UpdateApplicationParams{
		ApplicationID: req.ApplicationID,
		Status:        domain.ApplicationStatus(req.Status),
		Notes:         req.Notes,
		Actor:         c.User,
	})
	if err != nil {
		r.sendDomainError(c, err)
		return
	}

	statusPayload := domain.ApplicationStatusPayload{
		ApplicationID: updated.ID,
		JobID:         updated.JobID,
		ApplicantID:   updated.ApplicantID,
		Status:        updated.Status,
		Notes:         updated.Notes,
		UpdatedBy:     c.User.ID,
		UpdatedAt:     updated.UpdatedAt,
	}

	r.broadcaster.ToUser(updated.ApplicantID, domain.EventApplicationStatusUpdated, statusPayload)
	r.broadcaster.ToRole(domain.RoleEmployer, domain.EventApplicationUpdated, statusPayload)
	r.broadcaster.ToRole(domain.RoleAdmin, domain.EventApplicationUpdated, statusPayload)
	r.ackIfLive(c, domain.EventApplicationUpdateSuccess, statusPayload)
}

func (r *EventRouter) handleNewJobPosted(ctx context.Context, c *Client, payload json.RawMessage) {
	var req jobRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil || req.JobID <= 0 {
		r.sendError(c, "validation_error", apperrors.ErrJobIDRequired.Error())
		return
	}

	job, err := r.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		r.sendDomainError(c, err)
		return
	}

	alert := domain.JobAlertPayload{
		JobID:       job.ID,
		Title:       job.Title,
		CompanyName: job.CompanyName,
		Location:    job.Location,
	}

	r.broadcaster.ToRole(domain.RoleJobSeeker, domain.EventNewJobAlert, alert)
	r.broadcaster.ToRole(domain.RoleAdmin, domain.EventNewJobPostedAdmin, alert)
}

func (r *EventRouter) handleSendMessage(ctx context.Context, c *Client, payload json.RawMessage) {
	var req sendMessageRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		r.sendError(c, "invalid_payload", apperrors.ErrInvalidPayload.Error())
		return
	}
	if req.RecipientID == uuid.Nil {
		r.sendError(c, "validation_error", apperrors.ErrRecipientRequired.Error())
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		r.sendError(c, "validation_error", apperrors.ErrMessageRequired.Error())
		return
	}
	if len(message) > maxChatMessageLength {
		r.sendError(c, "validation_error", apperrors.ErrMessageTooLong.Error())
		return
	}

	recipient, err := r.users.GetByID(ctx, req.RecipientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			err = apperrors.ErrRecipientNotFound
		}
		r.sendDomainError(c, err)
		return
	}

	messagePayload := domain.DirectMessagePayload{
		SenderID:    c.User.ID,
		SenderName:  c.User.FullName,
		RecipientID: recipient.ID,
		Message:     message,
		JobID:       req.JobID,
	}

	r.broadcaster.ToUser(recipient.ID, domain.EventNewMessage, messagePayload)
	r.ackIfLive(c, domain.EventMessageSent, messagePayload)
}

func (r *EventRouter) handleTyping(c *Client, payload json.RawMessage, typing bool) {
	var req typingRequest
	if err := json.Unmarshal(payload, &req); err != nil || req.RecipientID == uuid.Nil {
		r.sendError(c, "validation_error", apperrors.ErrRecipientRequired.Error())
		return
	}

	r.broadcaster.ToUser(req.RecipientID, domain.EventUserTyping, domain.TypingPayload{
		UserID: c.User.ID,
		Typing: typing,
	})
}

// ackIfLive sends a sender-scoped acknowledgement only if the connection is
// still registered. A handler that suspended on a data-layer call may find
// its connection gone when it resumes; its ack is then discarded.
func (r *EventRouter) ackIfLive(c *Client, t domain.EventType, payload any) {
	if _, ok := r.registry.Get(c.ID); !ok {
		return
	}
	r.sendTo(c, t, payload)
}

// sendTo delivers an event directly to one connection.
func (r *EventRouter) sendTo(c *Client, t domain.EventType, payload any) {
	if c.Enqueue(domain.NewEvent(t, payload)) {
		r.metrics.EventsSent.WithLabelValues(string(t)).Inc()
		return
	}
	r.metrics.SendsDropped.Inc()
}

// sendError emits a scoped error event to the triggering connection only.
func (r *EventRouter) sendError(c *Client, code, message string) {
	r.metrics.HandlerErrors.WithLabelValues(code).Inc()
	r.sendTo(c, domain.EventError, domain.ErrorPayload{
		Code:    code,
		Message: message,
	})
}

// sendDomainError maps a domain error to a scoped error event. Unexpected
// errors are logged with their cause and surfaced generically.
func (r *EventRouter) sendDomainError(c *Client, err error) {
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		r.sendError(c, "forbidden", "You are not allowed to perform this action")
	case errors.Is(err, apperrors.ErrApplicationNotFound),
		errors.Is(err, apperrors.ErrJobNotFound),
		errors.Is(err, apperrors.ErrRecipientNotFound),
		errors.Is(err, apperrors.ErrUserNotFound):
		r.sendError(c, "not_found", err.Error())
	case errors.Is(err, apperrors.ErrInvalidStatus),
		errors.Is(err, apperrors.ErrNotesTooLong),
		errors.Is(err, apperrors.ErrInvalidPayload):
		r.sendError(c, "validation_error", err.Error())
	default:
		r.logger.Error("handler error",
			"connection_id", c.ID,
			"user_id", c.User.ID,
			"error", err,
		)
		r.sendError(c, "internal_error", "An unexpected error occurred")
	}
}
