package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/vikram-2101/project-manager-app/internal/notifications"
	"github.com/vikram-2101/project-manager-app/internal/realtime"
	"github.com/vikram-2101/project-manager-app/internal/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type WSHandler struct {
	hub           *realtime.Hub
	notifications *notifications.Service
}

func NewWSHandler(hub *realtime.Hub, svc *notifications.Service) *WSHandler {
	return &WSHandler{hub: hub, notifications: svc}
}

// wsConn adapts a gorilla connection to the hub. The hub emits from
// mutation goroutines while the ping ticker writes from its own, so all
// writes go through one mutex.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *wsConn) writePing() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// inboundMessage is what clients may send over the socket.
type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type markReadPayload struct {
	ID uint `json:"id"`
}

// Connect upgrades the request and subscribes the connection to the
// authenticated user's room. The room key always comes from the session,
// never from the URL or payload.
func (h *WSHandler) Connect(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	raw, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	conn := &wsConn{conn: raw}

	raw.SetReadLimit(maxMessageSize)
	if err := raw.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Errorf("Failed to set initial read deadline: %v", err)
		conn.Close()
		return
	}
	raw.SetPongHandler(func(string) error {
		return raw.SetReadDeadline(time.Now().Add(pongWait))
	})

	connID := h.hub.Register(actor.ID, conn)

	defer func() {
		h.hub.Unregister(actor.ID, connID)
		conn.Close()
		log.Infof("WebSocket connection closed for user %d", actor.ID)
	}()

	if err := conn.WriteJSON(realtime.Envelope{
		Event: realtime.EventConnected,
		Data:  gin.H{"message": "WebSocket connection established"},
	}); err != nil {
		log.Errorf("Failed to send welcome message: %v", err)
		return
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := conn.writePing(); err != nil {
					log.Errorf("Ping failed for user %d: %v", actor.ID, err)
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		_, message, err := raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Errorf("WebSocket error for user %d: %v", actor.ID, err)
			}
			return
		}

		h.handleMessage(actor.ID, message)
	}
}

func (h *WSHandler) handleMessage(userID uint, message []byte) {
	var msg inboundMessage

	if err := json.Unmarshal(message, &msg); err != nil {
		log.Errorf("Invalid message from user %d: %v", userID, err)
		return
	}

	switch msg.Event {
	case "markNotificationAsRead":
		var payload markReadPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			log.Errorf("Invalid markNotificationAsRead payload from user %d: %v", userID, err)
			return
		}
		if _, err := h.notifications.MarkRead(payload.ID, userID); err != nil {
			log.Errorf("Failed to mark notification %d read for user %d: %v", payload.ID, userID, err)
		}
	default:
		log.Infof("Unknown event %q from user %d", msg.Event, userID)
	}
}
