package ws

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace/internal/api/metrics"
	"github.com/servicehub/marketplace/internal/core/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Hub keeps track of the live notification streams of each user. A user
// may hold several connections, one per open tab.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]map[*client]struct{} // userID -> connections
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

type client struct {
	ws   *websocket.Conn
	send chan []byte
}

// Message is the envelope written to the stream.
type Message struct {
	Type string       `json:"type"`
	Data Notification `json:"data"`
}

type Notification struct {
	ID         string    `json:"id"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"isRead"`
	ActionText string    `json:"actionText,omitempty"`
	ActionURL  string    `json:"actionUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewHub returns a hub accepting upgrades from allowedOrigins; "*" allows any.
func NewHub(logger zerolog.Logger, allowedOrigins []string) *Hub {
	h := &Hub{
		conns:  make(map[string]map[*client]struct{}),
		logger: logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// Serve upgrades the request and blocks until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{ws: conn, send: make(chan []byte, sendBuffer)}
	h.register(userID, c)
	h.logger.Debug().Str("user_id", userID).Msg("notification stream opened")

	go h.writeLoop(c)
	h.readLoop(c)

	h.unregister(userID, c)
	h.logger.Debug().Str("user_id", userID).Msg("notification stream closed")
	return nil
}

func (h *Hub) register(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[userID]
	if !ok {
		set = make(map[*client]struct{})
		h.conns[userID] = set
	}
	set[c] = struct{}{}
	metrics.WSConnections.Inc()
}

func (h *Hub) unregister(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.conns, userID)
	}
	close(c.send)
	metrics.WSConnections.Dec()
}

// readLoop discards client frames and returns once the peer disconnects
// or stops answering pings.
func (h *Hub) readLoop(c *client) {
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug().Err(err).Msg("notification stream read error")
			}
			return
		}
	}
}

// writeLoop is the only writer of c.ws.
func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Push delivers n to every open stream of userID. Slow clients whose
// buffer is full miss the message; they still see it in the list.
func (h *Hub) Push(userID string, n *domain.Notification) {
	payload, err := json.Marshal(Message{
		Type: "notification",
		Data: Notification{
			ID:         n.ID,
			Message:    n.Message,
			IsRead:     n.IsRead,
			ActionText: n.ActionText,
			ActionURL:  n.ActionURL,
			CreatedAt:  n.CreatedAt,
		},
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode notification")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[userID] {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn().Str("user_id", userID).Msg("notification stream buffer full, dropping message")
		}
	}
}

// Connections returns the number of open streams of userID.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

// Close ends every stream. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.conns {
		for c := range set {
			close(c.send)
			metrics.WSConnections.Dec()
		}
		delete(h.conns, userID)
	}
}
