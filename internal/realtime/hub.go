// Package realtime keeps per-user delivery rooms for the push channel.
// The Hub is constructed at startup and injected into both the
// notification service and the WebSocket handler; there is no
// package-level registry.
package realtime

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	EventConnected               = "connected"
	EventNewNotification         = "newNotification"
	EventNotificationUpdated     = "notificationUpdated"
	EventUnreadNotificationCount = "unreadNotificationCount"
)

// Conn is the write side of a client connection. *websocket.Conn
// wrappers and test fakes both satisfy it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Envelope is the wire frame for every server -> client event.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[string]Conn
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uint]map[string]Conn),
	}
}

// Register joins conn to the room of userID and returns the connection
// id used to unregister it. The room key comes from the authenticated
// session, never from the client.
func (h *Hub) Register(userID uint, conn Conn) string {
	connID := uuid.NewString()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[string]Conn)
	}
	h.rooms[userID][connID] = conn
	return connID
}

func (h *Hub) Unregister(userID uint, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[userID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(h.rooms, userID)
		}
	}
}

// EmitToUser pushes an event to every connection in the user's room.
// An empty room is not an error; a connection whose write fails is
// evicted and closed. The returned error reports only the case where
// the user had connections and none of them could be written to.
func (h *Hub) EmitToUser(userID uint, event string, payload interface{}) error {
	h.mu.RLock()
	conns := make(map[string]Conn, len(h.rooms[userID]))
	for id, conn := range h.rooms[userID] {
		conns[id] = conn
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return nil
	}

	delivered := 0
	for id, conn := range conns {
		if err := conn.WriteJSON(Envelope{Event: event, Data: payload}); err != nil {
			log.Errorf("Failed to push %s to user %d: %v", event, userID, err)
			h.Unregister(userID, id)
			conn.Close()
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return fmt.Errorf("no live connections for user %d accepted event %s", userID, event)
	}
	return nil
}

// ConnectionCount reports the number of live connections in a room.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}
