package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/hireloop/jobboard-backend/internal/adapters/primary/http/middleware"
	realtime "github.com/hireloop/jobboard-backend/internal/adapters/primary/websocket"
	"github.com/hireloop/jobboard-backend/internal/config"
	"github.com/hireloop/jobboard-backend/internal/infrastructure/metrics"
)

// WebSocketHandler authenticates and upgrades incoming realtime connections.
// Authentication happens before the upgrade: an unauthenticated request is
// refused with 401 and never reaches the socket layer.
type WebSocketHandler struct {
	authenticator *realtime.Authenticator
	registry      *realtime.SessionRegistry
	rooms         *realtime.RoomManager
	router        *realtime.EventRouter
	metrics       *metrics.RealtimeMetrics
	upgrader      websocket.Upgrader
	logger        *slog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	authenticator *realtime.Authenticator,
	registry *realtime.SessionRegistry,
	rooms *realtime.RoomManager,
	router *realtime.EventRouter,
	m *metrics.RealtimeMetrics,
	cfg *config.Config,
	logger *slog.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		authenticator: authenticator,
		registry:      registry,
		rooms:         rooms,
		router:        router,
		metrics:       m,
		logger:        logger,
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg),
	}

	return handler
}

// makeOriginChecker creates an origin checking function based on configuration
func (h *WebSocketHandler) makeOriginChecker(cfg *config.Config) func(r *http.Request) bool {
	allowedOrigins := cfg.WebSocket.AllowedOrigins

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// In development mode, allow all origins (but log a warning)
		if cfg.IsDevelopment() {
			if origin != "" {
				h.logger.Warn("allowing websocket connection in development mode",
					"origin", origin,
					"remote_addr", r.RemoteAddr,
				)
			}
			return true
		}

		// No origin header (same-origin request or non-browser client)
		if origin == "" {
			return true
		}

		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin",
				"origin", origin,
				"error", err,
			)
			return false
		}

		originHost := parsedOrigin.Host

		for _, allowed := range allowedOrigins {
			// Support wildcard subdomains like "*.example.com"
			if strings.HasPrefix(allowed, "*.") {
				suffix := allowed[1:]
				if strings.HasSuffix(originHost, suffix) || originHost == allowed[2:] {
					return true
				}
			} else if originHost == allowed {
				return true
			}
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
			"allowed_origins", allowedOrigins,
		)
		return false
	}
}

// ServeHTTP handles WebSocket connection requests
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	// 1. Authenticate the connection via query parameter
	token := r.URL.Query().Get("token")

	user, err := h.authenticator.Authenticate(r.Context(), token)
	if err != nil {
		h.metrics.HandshakeRejects.Inc()
		h.logger.Warn("websocket connection rejected",
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
			"error", err,
		)
		http.Error(w, "Invalid or missing authentication token", http.StatusUnauthorized)
		return
	}

	// 2. Upgrade the connection
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket connection",
			"request_id", requestID,
			"user_id", user.ID,
			"error", err,
		)
		return
	}

	// 3. Create the client, register it, and assign its default rooms
	client := realtime.NewClient(conn, *user, h.logger)
	h.registry.Register(client)
	h.rooms.AssignDefaults(client)

	h.metrics.ConnectionsActive.Inc()
	h.metrics.ConnectionsTotal.Inc()

	h.logger.Info("websocket connection established",
		"request_id", requestID,
		"connection_id", client.ID,
		"user_id", user.ID,
		"remote_addr", r.RemoteAddr,
	)

	// 4. Start the I/O pumps; the write pump must run before the
	// connection acknowledgement is enqueued
	go client.WritePump()
	h.router.Connected(client)

	go client.ReadPump(func(c *realtime.Client, msg []byte) {
		h.router.HandleMessage(context.Background(), c, msg)
	}, h.router.Disconnect)
}
