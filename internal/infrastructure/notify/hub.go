// Package notify delivers mutual-match signals to connected clients.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	EventConnected   = "connected"
	EventMutualMatch = "mutual_match"

	sendBuffer   = 16
	writeTimeout = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 30 * time.Second
	readLimit    = 4096
)

// ServerEvent is one message pushed to a client.
type ServerEvent struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// MutualMatch is the payload of a mutual_match event. ChatID keys the chat
// thread and equals the pairing id.
type MutualMatch struct {
	PairingID uuid.UUID `json:"pairing_id"`
	ChatID    uuid.UUID `json:"chat_id"`
	PartnerID uuid.UUID `json:"partner_id"`
}

type client struct {
	profileID uuid.UUID
	conn      *websocket.Conn
	send      chan ServerEvent
}

// Hub tracks the open sockets of each profile.
type Hub struct {
	mu        sync.RWMutex
	byProfile map[uuid.UUID]map[*client]bool
	logger    *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		byProfile: make(map[uuid.UUID]map[*client]bool),
		logger:    logger,
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byProfile[c.profileID] == nil {
		h.byProfile[c.profileID] = make(map[*client]bool)
	}
	h.byProfile[c.profileID][c] = true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if peers, ok := h.byProfile[c.profileID]; ok {
		if peers[c] {
			delete(peers, c)
			close(c.send)
		}
		if len(peers) == 0 {
			delete(h.byProfile, c.profileID)
		}
	}
}

// Connections returns how many sockets profileID has open.
func (h *Hub) Connections(profileID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byProfile[profileID])
}

// SendToProfile queues evt on every socket of profileID. A socket whose
// buffer is full misses the event.
func (h *Hub) SendToProfile(profileID uuid.UUID, evt ServerEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.byProfile[profileID] {
		select {
		case c.send <- evt:
		default:
			h.logger.Warn("notification dropped, client buffer full", "profile_id", profileID, "type", evt.Type)
		}
	}
}

// OnMutualMatch tells both profiles of the pairing about their new chat.
func (h *Hub) OnMutualMatch(ctx context.Context, pairingID, profileA, profileB uuid.UUID) {
	h.SendToProfile(profileA, ServerEvent{
		Type: EventMutualMatch,
		Data: MutualMatch{PairingID: pairingID, ChatID: pairingID, PartnerID: profileB},
	})
	h.SendToProfile(profileB, ServerEvent{
		Type: EventMutualMatch,
		Data: MutualMatch{PairingID: pairingID, ChatID: pairingID, PartnerID: profileA},
	})
}

// Serve owns conn until the client disconnects. It blocks.
func (h *Hub) Serve(profileID uuid.UUID, conn *websocket.Conn) {
	c := &client{
		profileID: profileID,
		conn:      conn,
		send:      make(chan ServerEvent, sendBuffer),
	}
	h.register(c)
	c.send <- ServerEvent{Type: EventConnected}

	go h.writePump(c)
	h.readPump(c)
}

// readPump only drains control frames; clients do not send events.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket closed", "profile_id", c.profileID, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
