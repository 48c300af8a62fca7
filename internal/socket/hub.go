package socket

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// sendBuffer bounds the per-client outbox, slow consumers drop messages.
const sendBuffer = 16

// Hub fans training events out to all connected websocket clients.
type Hub struct {
	mutex    sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler upgrades incoming requests to websocket connections.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("could not upgrade connection")
			return
		}
		c := &client{
			conn: conn,
			send: make(chan []byte, sendBuffer),
		}
		h.mutex.Lock()
		h.clients[c] = struct{}{}
		h.mutex.Unlock()
		log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client connected")

		go c.writeLoop()
		go h.readLoop(c)
	}
}

// Emit broadcasts the event to all connected clients.
func (h *Hub) Emit(event string, data interface{}) {
	b, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		log.Warn().Str("event", event).Err(err).Msg("could not marshal event")
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			// the client is not keeping up, skip it for this event
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) remove(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readLoop drains client frames to notice disconnects.
func (h *Hub) readLoop(c *client) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writeLoop() {
	for b := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = c.conn.Close()
			return
		}
	}
}
