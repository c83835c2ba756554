package websocket

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
	apperrors "github.com/hireloop/jobboard-backend/internal/core/errors"
	"github.com/hireloop/jobboard-backend/internal/core/mocks"
	"github.com/hireloop/jobboard-backend/internal/core/ports"
	"github.com/hireloop/jobboard-backend/internal/infrastructure/metrics"
)

type routerFixture struct {
	registry *SessionRegistry
	rooms    *RoomManager
	apps     *mocks.MockApplicationService
	users    *mocks.MockUserRepository
	jobs     *mocks.MockJobRepository
	router   *EventRouter
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	registry := NewSessionRegistry(testLogger())
	rooms := NewRoomManager(testLogger())
	m := metrics.NewRealtimeMetrics(prometheus.NewRegistry())
	broadcaster := NewBroadcaster(registry, rooms, m, testLogger())

	apps := mocks.NewMockApplicationService()
	users := mocks.NewMockUserRepository()
	jobs := mocks.NewMockJobRepository()

	router := NewEventRouter(registry, rooms, broadcaster, apps, users, jobs, m, testLogger())

	return &routerFixture{
		registry: registry,
		rooms:    rooms,
		apps:     apps,
		users:    users,
		jobs:     jobs,
		router:   router,
	}
}

// connect registers a client the way the handshake handler does.
func (f *routerFixture) connect(user domain.User) *Client {
	client := newTestClient(user)
	f.registry.Register(client)
	f.rooms.AssignDefaults(client)
	return client
}

// requireEvent pops the next queued event and checks its type.
func requireEvent(t *testing.T, c *Client, want domain.EventType) domain.Event {
	t.Helper()
	event, ok := receiveEvent(t, c)
	require.True(t, ok, "expected a %q event, queue was empty", want)
	require.Equal(t, want, event.Type)
	return event
}

func requireNoEvent(t *testing.T, c *Client) {
	t.Helper()
	event, ok := receiveEvent(t, c)
	require.False(t, ok, "expected no event, got %q", event.Type)
}

func requireErrorEvent(t *testing.T, c *Client, code string) {
	t.Helper()
	event := requireEvent(t, c, domain.EventError)
	payload, ok := event.Payload.(domain.ErrorPayload)
	require.True(t, ok)
	assert.Equal(t, code, payload.Code)
}

func TestEventRouter_Connected(t *testing.T) {
	f := newRouterFixture(t)
	client := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})

	f.router.Connected(client)

	event := requireEvent(t, client, domain.EventConnected)
	payload, ok := event.Payload.(domain.ConnectedPayload)
	require.True(t, ok)
	assert.Equal(t, client.User.ID, payload.UserID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEventRouter_JoinAndLeaveJobRoom(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	client := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})

	f.router.HandleMessage(ctx, client, []byte(`{"type":"join_job_room","payload":{"jobId":42}}`))

	event := requireEvent(t, client, domain.EventJoinedJobRoom)
	assert.Equal(t, domain.JobRoomPayload{JobID: 42}, event.Payload)
	assert.True(t, client.InRoom(domain.JobRoom(42)))

	// Joining again is idempotent; the ack is still sent.
	f.router.HandleMessage(ctx, client, []byte(`{"type":"join_job_room","payload":{"jobId":42}}`))
	requireEvent(t, client, domain.EventJoinedJobRoom)
	assert.Equal(t, 1, f.rooms.MemberCount(domain.JobRoom(42)))

	f.router.HandleMessage(ctx, client, []byte(`{"type":"leave_job_room","payload":{"jobId":42}}`))
	requireEvent(t, client, domain.EventLeftJobRoom)
	assert.False(t, client.InRoom(domain.JobRoom(42)))

	// Leaving a room never joined is a no-op with an ack.
	f.router.HandleMessage(ctx, client, []byte(`{"type":"leave_job_room","payload":{"jobId":77}}`))
	requireEvent(t, client, domain.EventLeftJobRoom)
}

func TestEventRouter_JoinJobRoom_RequiresJobID(t *testing.T) {
	f := newRouterFixture(t)
	client := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})

	f.router.HandleMessage(context.Background(), client, []byte(`{"type":"join_job_room","payload":{}}`))

	requireErrorEvent(t, client, "validation_error")
	assert.False(t, client.InRoom(domain.JobRoom(0)))
}

func TestEventRouter_MalformedMessage(t *testing.T) {
	f := newRouterFixture(t)
	client := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})

	f.router.HandleMessage(context.Background(), client, []byte(`{not json`))

	requireErrorEvent(t, client, "invalid_payload")
}

func TestEventRouter_UnknownEventType(t *testing.T) {
	f := newRouterFixture(t)
	client := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})

	f.router.HandleMessage(context.Background(), client, []byte(`{"type":"subscribe_everything","payload":{}}`))

	requireErrorEvent(t, client, "unknown_event")
}

func TestEventRouter_ApplicationUpdate(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	companyID := uuid.New()
	applicantID := uuid.New()
	updatedAt := time.Now().UTC()

	recruiter := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleEmployer, CompanyID: &companyID})
	applicantTab1 := f.connect(domain.User{ID: applicantID, Role: domain.RoleJobSeeker})
	applicantTab2 := f.connect(domain.User{ID: applicantID, Role: domain.RoleJobSeeker})
	admin := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleAdmin})
	bystander := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})

	f.apps.On("UpdateStatus", ctx, ports.UpdateApplicationParams{
		ApplicationID: 10,
		Status:        domain.ApplicationShortlisted,
		Notes:         "strong fit",
		Actor:         recruiter.User,
	}).Return(&domain.Application{
		ID:          10,
		JobID:       7,
		ApplicantID: applicantID,
		Status:      domain.ApplicationShortlisted,
		Notes:       "strong fit",
		UpdatedAt:   &updatedAt,
	}, nil)

	raw := []byte(`{"type":"application_update","payload":{"applicationId":10,"status":"shortlisted","notes":"strong fit"}}`)
	f.router.HandleMessage(ctx, recruiter, raw)

	// Every tab of the applicant hears the status change.
	for _, tab := range []*Client{applicantTab1, applicantTab2} {
		event := requireEvent(t, tab, domain.EventApplicationStatusUpdated)
		payload, ok := event.Payload.(domain.ApplicationStatusPayload)
		require.True(t, ok)
		assert.Equal(t, int64(10), payload.ApplicationID)
		assert.Equal(t, domain.ApplicationShortlisted, payload.Status)
		assert.Equal(t, recruiter.User.ID, payload.UpdatedBy)
	}

	// Role rooms hear the generic update; the admin gets exactly one copy.
	requireEvent(t, admin, domain.EventApplicationUpdated)
	requireNoEvent(t, admin)

	// The sender is in the employer role room and then gets the ack.
	requireEvent(t, recruiter, domain.EventApplicationUpdated)
	requireEvent(t, recruiter, domain.EventApplicationUpdateSuccess)

	requireNoEvent(t, bystander)
	f.apps.AssertExpectations(t)
}

func TestEventRouter_ApplicationUpdate_Forbidden(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	applicantID := uuid.New()
	outsider := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleEmployer})
	applicant := f.connect(domain.User{ID: applicantID, Role: domain.RoleJobSeeker})

	f.apps.On("UpdateStatus", ctx, mock.AnythingOfType("ports.UpdateApplicationParams")).
		Return(nil, apperrors.ErrForbidden)

	raw := []byte(`{"type":"application_update","payload":{"applicationId":10,"status":"rejected"}}`)
	f.router.HandleMessage(ctx, outsider, raw)

	requireErrorEvent(t, outsider, "forbidden")
	requireNoEvent(t, applicant)
}

func TestEventRouter_ApplicationUpdate_InvalidStatus(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	sender := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleAdmin})

	f.apps.On("UpdateStatus", ctx, mock.AnythingOfType("ports.UpdateApplicationParams")).
		Return(nil, apperrors.ErrInvalidStatus)

	raw := []byte(`{"type":"application_update","payload":{"applicationId":10,"status":"archived"}}`)
	f.router.HandleMessage(ctx, sender, raw)

	requireErrorEvent(t, sender, "validation_error")
}

func TestEventRouter_NewJobPosted(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	companyID := uuid.New()
	recruiter := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleEmployer, CompanyID: &companyID})
	seeker := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})
	admin := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleAdmin})

	f.jobs.On("GetByID", ctx, int64(7)).Return(&domain.Job{
		ID:          7,
		CompanyID:   companyID,
		CompanyName: "Acme",
		Title:       "Backend Engineer",
		Location:    "Remote",
		IsOpen:      true,
	}, nil)

	f.router.HandleMessage(ctx, recruiter, []byte(`{"type":"new_job_posted","payload":{"jobId":7}}`))

	event := requireEvent(t, seeker, domain.EventNewJobAlert)
	payload, ok := event.Payload.(domain.JobAlertPayload)
	require.True(t, ok)
	assert.Equal(t, "Backend Engineer", payload.Title)
	assert.Equal(t, "Acme", payload.CompanyName)

	requireEvent(t, admin, domain.EventNewJobPostedAdmin)
	requireNoEvent(t, recruiter)
}

func TestEventRouter_NewJobPosted_UnknownJob(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	recruiter := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleEmployer})
	seeker := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})

	f.jobs.On("GetByID", ctx, int64(404)).Return(nil, apperrors.ErrJobNotFound)

	f.router.HandleMessage(ctx, recruiter, []byte(`{"type":"new_job_posted","payload":{"jobId":404}}`))

	requireErrorEvent(t, recruiter, "not_found")
	requireNoEvent(t, seeker)
}

func TestEventRouter_SendMessage(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	recipientID := uuid.New()
	sender := f.connect(domain.User{ID: uuid.New(), FullName: "Sam Seeker", Role: domain.RoleJobSeeker})
	recipient := f.connect(domain.User{ID: recipientID, Role: domain.RoleEmployer})

	f.users.On("GetByID", ctx, recipientID).Return(&domain.User{
		ID:   recipientID,
		Role: domain.RoleEmployer,
	}, nil)

	raw := fmt.Sprintf(`{"type":"send_message","payload":{"recipientId":%q,"message":"  hello there  ","jobId":7}}`, recipientID)
	f.router.HandleMessage(ctx, sender, []byte(raw))

	event := requireEvent(t, recipient, domain.EventNewMessage)
	payload, ok := event.Payload.(domain.DirectMessagePayload)
	require.True(t, ok)
	assert.Equal(t, sender.User.ID, payload.SenderID)
	assert.Equal(t, "Sam Seeker", payload.SenderName)
	assert.Equal(t, "hello there", payload.Message)
	require.NotNil(t, payload.JobID)
	assert.Equal(t, int64(7), *payload.JobID)

	requireEvent(t, sender, domain.EventMessageSent)
}

func TestEventRouter_SendMessage_UnknownRecipient(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	recipientID := uuid.New()
	sender := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})

	f.users.On("GetByID", ctx, recipientID).Return(nil, apperrors.ErrUserNotFound)

	raw := fmt.Sprintf(`{"type":"send_message","payload":{"recipientId":%q,"message":"hello"}}`, recipientID)
	f.router.HandleMessage(ctx, sender, []byte(raw))

	requireErrorEvent(t, sender, "not_found")
}

func TestEventRouter_SendMessage_Validation(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	recipientID := uuid.New()
	sender := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})

	t.Run("missing recipient", func(t *testing.T) {
		f.router.HandleMessage(ctx, sender, []byte(`{"type":"send_message","payload":{"message":"hi"}}`))
		requireErrorEvent(t, sender, "validation_error")
	})

	t.Run("blank message", func(t *testing.T) {
		raw := fmt.Sprintf(`{"type":"send_message","payload":{"recipientId":%q,"message":"   "}}`, recipientID)
		f.router.HandleMessage(ctx, sender, []byte(raw))
		requireErrorEvent(t, sender, "validation_error")
	})

	f.users.AssertNotCalled(t, "GetByID")
}

func TestEventRouter_TypingIndicators(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	recipientID := uuid.New()
	sender := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})
	recipient := f.connect(domain.User{ID: recipientID, Role: domain.RoleEmployer})

	raw := fmt.Sprintf(`{"type":"typing_start","payload":{"recipientId":%q}}`, recipientID)
	f.router.HandleMessage(ctx, sender, []byte(raw))

	event := requireEvent(t, recipient, domain.EventUserTyping)
	payload, ok := event.Payload.(domain.TypingPayload)
	require.True(t, ok)
	assert.Equal(t, sender.User.ID, payload.UserID)
	assert.True(t, payload.Typing)

	raw = fmt.Sprintf(`{"type":"typing_stop","payload":{"recipientId":%q}}`, recipientID)
	f.router.HandleMessage(ctx, sender, []byte(raw))

	event = requireEvent(t, recipient, domain.EventUserTyping)
	payload, ok = event.Payload.(domain.TypingPayload)
	require.True(t, ok)
	assert.False(t, payload.Typing)

	// No echo back to the sender.
	requireNoEvent(t, sender)
}

func TestEventRouter_Disconnect(t *testing.T) {
	f := newRouterFixture(t)

	leaving := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})
	staying := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})
	f.rooms.Join(leaving, domain.JobRoom(5))

	f.router.Disconnect(leaving)

	_, ok := f.registry.Get(leaving.ID)
	assert.False(t, ok)
	assert.Empty(t, leaving.Rooms())
	assert.Equal(t, 0, f.rooms.MemberCount(domain.JobRoom(5)))
	assert.Equal(t, 0, f.rooms.MemberCount(domain.UserRoom(leaving.User.ID)))

	event := requireEvent(t, staying, domain.EventUserDisconnected)
	payload, ok := event.Payload.(domain.DisconnectedPayload)
	require.True(t, ok)
	assert.Equal(t, leaving.User.ID, payload.UserID)

	// A second disconnect of the same connection announces nothing.
	f.router.Disconnect(leaving)
	requireNoEvent(t, staying)
}

func TestEventRouter_AckSkippedAfterMidflightDisconnect(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	recipientID := uuid.New()
	sender := f.connect(domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker})
	recipient := f.connect(domain.User{ID: recipientID, Role: domain.RoleEmployer})

	// The sender drops while the handler is resolving the recipient.
	f.users.On("GetByID", ctx, recipientID).Run(func(args mock.Arguments) {
		f.router.Disconnect(sender)
	}).Return(&domain.User{ID: recipientID, Role: domain.RoleEmployer}, nil)

	raw := fmt.Sprintf(`{"type":"send_message","payload":{"recipientId":%q,"message":"hello"}}`, recipientID)
	f.router.HandleMessage(ctx, sender, []byte(raw))

	// The recipient still receives the message.
	requireEvent(t, recipient, domain.EventUserDisconnected)
	requireEvent(t, recipient, domain.EventNewMessage)

	// The sender's channel is closed and holds no ack.
	_, open := <-sender.send
	assert.False(t, open)
}
