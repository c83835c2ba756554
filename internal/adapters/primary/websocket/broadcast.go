package websocket

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
	"github.com/hireloop/jobboard-backend/internal/core/ports"
	"github.com/hireloop/jobboard-backend/internal/infrastructure/metrics"
)

// Broadcaster implements the fan-out primitives on top of the room manager
// and the registry. Payloads are timestamped at send time. Delivery is
// at-most-once, best-effort: a slow or disconnected target is skipped, never
// queued for.
type Broadcaster struct {
	registry *SessionRegistry
	rooms    *RoomManager
	metrics  *metrics.RealtimeMetrics
	logger   *slog.Logger
}

var _ ports.Broadcaster = (*Broadcaster)(nil)

// NewBroadcaster creates a broadcaster over the given registry and rooms.
func NewBroadcaster(
	registry *SessionRegistry,
	rooms *RoomManager,
	m *metrics.RealtimeMetrics,
	logger *slog.Logger,
) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		rooms:    rooms,
		metrics:  m,
		logger:   logger.With("component", "broadcaster"),
	}
}

// ToUser delivers an event to every live connection of a user via its
// personal room.
func (b *Broadcaster) ToUser(userID uuid.UUID, t domain.EventType, payload any) {
	b.toRoom(domain.UserRoom(userID), t, payload)
}

// ToRole delivers an event to every connection in a role room.
func (b *Broadcaster) ToRole(role domain.Role, t domain.EventType, payload any) {
	b.toRoom(domain.RoleRoom(role), t, payload)
}

// ToAll delivers an event to every live connection.
func (b *Broadcaster) ToAll(t domain.EventType, payload any) {
	b.deliver(b.registry.All(), domain.NewEvent(t, payload))
}

func (b *Broadcaster) toRoom(key string, t domain.EventType, payload any) {
	b.deliver(b.rooms.Members(key), domain.NewEvent(t, payload))
}

func (b *Broadcaster) deliver(clients []*Client, event domain.Event) {
	for _, c := range clients {
		if c.Enqueue(event) {
			b.metrics.EventsSent.WithLabelValues(string(event.Type)).Inc()
			continue
		}
		// Buffer full or connection already closed; drop the event.
		b.metrics.SendsDropped.Inc()
		b.logger.Warn("dropped outbound event",
			"event_type", event.Type,
			"connection_id", c.ID,
			"user_id", c.User.ID,
		)
	}
}
