package handler

import (
	"net/http"

	"github.com/gdugdh24/party-match-backend/internal/infrastructure/notify"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type NotificationHandler struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
}

// NewNotificationHandler accepts websocket upgrades from any origin when
// allowedOrigins is empty.
func NewNotificationHandler(hub *notify.Hub, allowedOrigins []string) *NotificationHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &NotificationHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return len(allowed) == 0 || allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// Subscribe handles GET /ws/notifications
// @Summary Stream mutual-match notifications
// @Tags notifications
// @Security BearerAuth
// @Router /ws/notifications [get]
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.hub.Serve(profileID, conn)
}
