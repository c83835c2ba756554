package websocket

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// SessionRegistry tracks every live connection, keyed by connection id.
// A single user may hold multiple entries (multiple tabs or devices), each
// independently keyed. The registry's cardinality equals the number of
// currently open sockets: entries are created on successful handshake and
// removed exactly once on disconnect.
type SessionRegistry struct {
	mu     sync.RWMutex
	byConn map[uuid.UUID]*Client
	byUser map[uuid.UUID]map[uuid.UUID]*Client
	logger *slog.Logger
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry(logger *slog.Logger) *SessionRegistry {
	return &SessionRegistry{
		byConn: make(map[uuid.UUID]*Client),
		byUser: make(map[uuid.UUID]map[uuid.UUID]*Client),
		logger: logger.With("component", "session_registry"),
	}
}

// Register adds a connection to the registry.
func (r *SessionRegistry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byConn[c.ID] = c
	if r.byUser[c.User.ID] == nil {
		r.byUser[c.User.ID] = make(map[uuid.UUID]*Client)
	}
	r.byUser[c.User.ID][c.ID] = c

	r.logger.Info("connection registered",
		"connection_id", c.ID,
		"user_id", c.User.ID,
		"user_connections", len(r.byUser[c.User.ID]),
	)
}

// Unregister removes a connection and returns it, or nil if it was already
// removed. Repeated calls are no-ops.
func (r *SessionRegistry) Unregister(connID uuid.UUID) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byConn[connID]
	if !ok {
		return nil
	}
	delete(r.byConn, connID)

	if userConns, ok := r.byUser[c.User.ID]; ok {
		delete(userConns, connID)
		if len(userConns) == 0 {
			delete(r.byUser, c.User.ID)
		}
	}

	r.logger.Info("connection unregistered",
		"connection_id", connID,
		"user_id", c.User.ID,
	)
	return c
}

// Get returns the live connection for a connection id.
func (r *SessionRegistry) Get(connID uuid.UUID) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byConn[connID]
	return c, ok
}

// ConnectionsOf returns every live connection for a user.
func (r *SessionRegistry) ConnectionsOf(userID uuid.UUID) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userConns := r.byUser[userID]
	clients := make([]*Client, 0, len(userConns))
	for _, c := range userConns {
		clients = append(clients, c)
	}
	return clients
}

// All returns a copy of every live connection.
func (r *SessionRegistry) All() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.byConn))
	for _, c := range r.byConn {
		clients = append(clients, c)
	}
	return clients
}

// Len returns the number of live connections.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}
