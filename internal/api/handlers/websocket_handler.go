package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/articlehub-be/internal/auth"
	"github.com/isdelr/articlehub-be/internal/models"
	ws "github.com/isdelr/articlehub-be/internal/websocket"
)

// WebSocketHandler handles upgrading HTTP connections to WebSocket connections.
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler accepting browser
// connections from allowedOrigins ("*" allows any).
func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// Serve handles the WebSocket connection request. Every caller receives
// article changes; admins also receive the full audit stream.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	topics := []string{ws.TopicArticles}
	if auth.Authorize([]models.Role{models.RoleAdmin}, claims.Permissions) {
		topics = append(topics, ws.TopicEvents)
	}

	client := ws.NewClient(h.hub, conn, claims.UserID(), topics...)
	if !h.hub.Add(client) {
		log.Warn().Str("user_id", claims.UserID()).Msg("Websocket hub stopped, closing connection")
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
