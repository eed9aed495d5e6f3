// Package feed broadcasts marketplace events to websocket subscribers.
package feed

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"market_go/internal/event"
	"market_go/internal/infra"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	pongTimeout  = 60 * time.Second
	sendBuffer   = 64
)

// envelope is the wire shape of one feed message.
type envelope struct {
	Type    string      `json:"type"`
	Payload event.Event `json:"payload"`
}

// Hub fans marketplace events out to connected websocket clients. Slow
// clients are dropped rather than allowed to stall the broadcast.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewHub creates an empty feed hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the connection and registers the subscriber.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("feed upgrade failed", slog.Any("error", err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	infra.GlobalMetrics.IncrementSubscribers()

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast serializes an event once and queues it to every subscriber.
// Plug this into the event dispatcher. Pooled events must not be retained,
// so marshalling happens before returning.
func (h *Hub) Broadcast(ev event.Event) {
	data, err := json.Marshal(envelope{Type: ev.GetType(), Payload: ev})
	if err != nil {
		slog.Error("feed marshal failed", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Subscriber cannot keep up; drop it.
			go h.drop(c)
		}
	}
}

// SubscriberCount returns the number of connected clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.drop(c)
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, present := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if present {
		infra.GlobalMetrics.DecrementSubscribers()
	}
	// The send channel is never closed: Broadcast may still be queueing
	// into it. Closing the connection makes both pumps exit on their own.
	c.once.Do(func() {
		c.conn.Close()
	})
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		h.drop(c)
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readPump(c *client) {
	defer h.drop(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	// Subscribers are read-only; the loop only surfaces disconnects.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
