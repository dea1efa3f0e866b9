package kds

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/devleo10/dishly/models"
	"github.com/devleo10/dishly/utils"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 5 * time.Second

	// sendBuffer is how many messages a display may fall behind before the
	// hub drops it.
	sendBuffer = 16
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type client struct {
	conn Conn
	role models.Role
	send chan []byte
}

// Hub holds the connected kitchen/admin displays. Each display has its own
// writer goroutine, so Publish never waits on a socket.
type Hub struct {
	clients map[Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[Conn]*client)}
}

func (h *Hub) Register(conn Conn, role models.Role) {
	c := &client{conn: conn, role: role, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()

	go h.writePump(c)
	utils.InfoLogger.WithField("role", role).Debug("kds client registered")
}

// Unregister stops delivery to conn. Its writer flushes what is queued and
// then closes the connection.
func (h *Hub) Unregister(conn Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if c, ok := h.clients[conn]; ok {
		h.drop(c)
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish queues the event for every display. A display whose queue is full
// is dropped.
func (h *Hub) Publish(_ context.Context, event Event) error {
	data, err := json.Marshal(Message{Event: event.Type, Data: event})
	if err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			utils.ErrorLogger.WithField("role", c.role).Error("kds client too slow, dropping client")
			h.drop(c)
		}
	}
	return nil
}

// drop must be called with the mutex held.
func (h *Hub) drop(c *client) {
	if h.clients[c.conn] != c {
		return
	}
	delete(h.clients, c.conn)
	close(c.send)
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()

	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.WithError(err).WithField("role", c.role).Error("kds write failed, dropping client")
			h.mutex.Lock()
			h.drop(c)
			h.mutex.Unlock()
			return
		}
	}
}
