package websocket

import (
	"log/slog"
	"sync"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
)

// RoomManager assigns connections to named broadcast groups. Rooms have no
// independent lifecycle: a room exists while at least one connection is a
// member, and an emptied room is deleted from the map.
type RoomManager struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]bool
	logger *slog.Logger
}

// NewRoomManager creates an empty room manager.
func NewRoomManager(logger *slog.Logger) *RoomManager {
	return &RoomManager{
		rooms:  make(map[string]map[*Client]bool),
		logger: logger.With("component", "room_manager"),
	}
}

// AssignDefaults joins a freshly registered connection to its deterministic
// default rooms: the personal room, the role room, and the company room iff
// the user has an associated company.
func (m *RoomManager) AssignDefaults(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range domain.DefaultRooms(&c.User) {
		m.join(c, key)
	}
}

// Join adds a connection to a room. Joining an already-joined room has no
// effect and produces no error.
func (m *RoomManager) Join(c *Client, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.join(c, key)
}

// Leave removes a connection from a room. Leaving a non-joined room is a
// no-op.
func (m *RoomManager) Leave(c *Client, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leave(c, key)
}

// ReleaseAll removes a connection from every room it ever joined, default
// and explicit, under a single lock so no partial membership is observable.
func (m *RoomManager) ReleaseAll(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range c.Rooms() {
		m.leave(c, key)
	}
}

// join requires m.mu to be held.
func (m *RoomManager) join(c *Client, key string) {
	if m.rooms[key] == nil {
		m.rooms[key] = make(map[*Client]bool)
	}
	m.rooms[key][c] = true
	c.TrackRoom(key)

	m.logger.Debug("joined room",
		"connection_id", c.ID,
		"room", key,
	)
}

// leave requires m.mu to be held.
func (m *RoomManager) leave(c *Client, key string) {
	if room, ok := m.rooms[key]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(m.rooms, key)
		}
	}
	c.ForgetRoom(key)
}

// Members returns a copy of the connections currently in a room.
func (m *RoomManager) Members(key string) []*Client {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room := m.rooms[key]
	clients := make([]*Client, 0, len(room))
	for c := range room {
		clients = append(clients, c)
	}
	return clients
}

// MemberCount returns the number of connections in a room.
func (m *RoomManager) MemberCount(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[key])
}

// RoomCount returns the number of rooms with at least one member.
func (m *RoomManager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
