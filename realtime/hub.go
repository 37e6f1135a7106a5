package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type message struct {
	Event string `json:"event"`
	Data  Event  `json:"data"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(m message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(m)
}

// Hub fans events out to websocket connections grouped by room
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*client]struct{}
}

// NewHub returns an empty hub
func NewHub() *Hub {
	return &Hub{rooms: map[string]map[*client]struct{}{}}
}

func (h *Hub) join(c *client, rooms []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range rooms {
		if h.rooms[room] == nil {
			h.rooms[room] = map[*client]struct{}{}
		}
		h.rooms[room][c] = struct{}{}
	}
}

func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Members returns the number of connections in room
func (h *Hub) Members(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}

// ServeWS upgrades the request and keeps the connection subscribed to rooms
// until the client goes away
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, rooms ...string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn}
	h.join(c, rooms)
	zap.S().Debugw("websocket client connected", "rooms", rooms)

	defer func() {
		h.leave(c)
		conn.Close()
		zap.S().Debugw("websocket client disconnected", "rooms", rooms)
	}()

	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// Publish implements Publisher
func (h *Hub) Publish(room, eventName string, payload Event) {
	h.mu.Lock()
	members := make([]*client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mu.Unlock()

	for _, c := range members {
		if err := c.write(message{Event: eventName, Data: payload}); err != nil {
			zap.S().Warnw("dropping websocket client after failed write", "room", room, "error", err)
			h.leave(c)
			c.conn.Close()
		}
	}
}
