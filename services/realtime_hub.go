package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// The hub fans dashboard snapshots and alerts out to the widget, watch, and
// live-activity consumers connected over WebSocket. Consumers render their
// own countdowns from the fixed instants in each snapshot.

type WSClient struct {
	UserID uint
	Conn   *websocket.Conn
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// BroadcastSnapshot sends a refreshed dashboard snapshot to every surface
// the user has connected.
func (h *RealtimeHub) BroadcastSnapshot(userID uint, snapshot any) {
	h.broadcast(userID, map[string]any{
		"kind":     "dashboard.snapshot",
		"snapshot": snapshot,
	})
}

func (h *RealtimeHub) BroadcastAlert(userID uint, alert any) {
	h.broadcast(userID, map[string]any{
		"kind":  "alert.created",
		"alert": alert,
	})
}

func (h *RealtimeHub) broadcast(userID uint, payload any) {
	msg, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
