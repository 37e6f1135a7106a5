package realtime

import (
	"net/http"

	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/models"
)

// SocketIO publishes through a Socket.IO server. Clients pick their rooms
// with the join and join-user events.
type SocketIO struct {
	server *socketio.Server
}

// NewSocketIO builds the Socket.IO server and registers its handlers
func NewSocketIO() *SocketIO {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			polling.Default,
			websocket.Default,
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		zap.S().Debugw("socket.io client connected", "id", s.ID())
		return nil
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		zap.S().Warnw("socket.io error", "error", e)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		zap.S().Debugw("socket.io client disconnected", "id", s.ID(), "reason", reason)
	})

	server.OnEvent("/", "join", func(s socketio.Conn, msg map[string]interface{}) {
		role, _ := msg["role"].(string)
		if !models.Role(role).Valid() {
			return
		}
		s.Join(RoleRoom(models.Role(role)))
		zap.S().Debugw("socket.io client joined role room", "id", s.ID(), "role", role)
	})

	server.OnEvent("/", "join-user", func(s socketio.Conn, userID string) {
		if userID == "" {
			return
		}
		s.Join("user-" + userID)
		zap.S().Debugw("socket.io client joined user room", "id", s.ID(), "user", userID)
	})

	return &SocketIO{server: server}
}

// Serve runs the server's event loop until Close
func (s *SocketIO) Serve() {
	if err := s.server.Serve(); err != nil {
		zap.S().Errorw("socket.io server stopped", "error", err)
	}
}

// Close stops the server
func (s *SocketIO) Close() error {
	return s.server.Close()
}

// Handler serves the Socket.IO endpoint
func (s *SocketIO) Handler() http.Handler {
	return s.server
}

// Publish implements Publisher
func (s *SocketIO) Publish(room, eventName string, payload Event) {
	s.server.BroadcastToRoom("/", room, eventName, payload)
}
