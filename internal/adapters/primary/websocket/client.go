package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outbound buffer size per connection.
	sendBufferSize = 256
)

// Client is one live, authenticated socket session. It owns the user
// snapshot resolved at handshake time and the connection's mutable set of
// joined room keys. A client is created on successful handshake and
// destroyed on disconnect; nothing about it is persisted.
type Client struct {
	// ID is the connection id. A user reconnecting always receives a new one.
	ID uuid.UUID

	// User is the snapshot attached at handshake time.
	User domain.User

	// Conn is the underlying websocket connection.
	Conn *websocket.Conn

	// ConnectedAt is the time the handshake completed.
	ConnectedAt time.Time

	// send is the buffered channel of outbound events.
	send chan domain.Event

	// mu guards closed and rooms.
	mu     sync.Mutex
	closed bool
	rooms  map[string]bool

	logger *slog.Logger
}

// NewClient creates a client for an upgraded connection.
func NewClient(conn *websocket.Conn, user domain.User, logger *slog.Logger) *Client {
	id := uuid.New()
	return &Client{
		ID:          id,
		User:        user,
		Conn:        conn,
		ConnectedAt: time.Now().UTC(),
		send:        make(chan domain.Event, sendBufferSize),
		rooms:       make(map[string]bool),
		logger: logger.With(
			"connection_id", id.String(),
			"user_id", user.ID.String(),
		),
	}
}

// Enqueue queues an event for delivery. It reports false when the
// connection is closed or its buffer is full; the event is then dropped,
// never retried.
func (c *Client) Enqueue(event domain.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// Close closes the send channel exactly once. Enqueue is serialized with
// Close through the client mutex, so no send can race the close.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// TrackRoom records a room key on the connection's membership set.
func (c *Client) TrackRoom(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[key] = true
}

// ForgetRoom removes a room key from the connection's membership set.
func (c *Client) ForgetRoom(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, key)
}

// InRoom reports whether the connection is a member of the room.
func (c *Client) InRoom(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rooms[key]
}

// Rooms returns a copy of every room key the connection is a member of.
func (c *Client) Rooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.rooms))
	for key := range c.rooms {
		keys = append(keys, key)
	}
	return keys
}

// ReadPump pumps messages from the websocket connection to the router.
// This method runs in its own goroutine; onClose runs exactly once when the
// connection drops, no matter how the read loop exits.
func (c *Client) ReadPump(onMessage func(*Client, []byte), onClose func(*Client)) {
	defer func() {
		onClose(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.logger.Error("failed to set read deadline in pong handler", "error", err)
		}
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		onMessage(c, message)
	}
}

// WritePump pumps events from the send channel to the websocket connection.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The send channel was closed on disconnect.
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug("failed to send close message", "error", err)
				}
				return
			}

			if err := c.writeJSON(event); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// writeJSON writes a JSON event to the websocket connection
func (c *Client) writeJSON(event domain.Event) error {
	w, err := c.Conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(w).Encode(event); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}
