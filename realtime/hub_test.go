package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/models"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func waitForMembers(t *testing.T, hub *Hub, room string, n int) {
	require.Eventually(t, func() bool { return hub.Members(room) == n }, time.Second, 5*time.Millisecond)
}

func TestHubPublishesToRoomMembers(t *testing.T) {
	hub := NewHub()
	user := primitive.NewObjectID()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, UserRoom(user), RoleRoom(models.RolePolice))
	}))
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	waitForMembers(t, hub, UserRoom(user), 1)

	event := Event{EventID: "e1", EntityID: "c1", EntityType: models.RelatedComplaint, Type: EventNewComplaint, Timestamp: time.Now().UTC()}
	hub.Publish(RoleRoom(models.RolePolice), EventNewComplaint, event)

	var got message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventNewComplaint, got.Event)
	assert.Equal(t, "c1", got.Data.EntityID)
}

func TestHubSkipsOtherRooms(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, RoleRoom(models.RoleCourt))
	}))
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	waitForMembers(t, hub, RoleRoom(models.RoleCourt), 1)

	hub.Publish(RoleRoom(models.RolePolice), EventNewComplaint, Event{EventID: "e1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(50*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestHubForgetsClosedConnections(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, "room")
	}))
	defer srv.Close()

	conn := dial(t, srv)
	waitForMembers(t, hub, "room", 1)

	conn.Close()
	waitForMembers(t, hub, "room", 0)
}

type recorder struct {
	rooms []string
}

func (r *recorder) Publish(room, _ string, _ Event) {
	r.rooms = append(r.rooms, room)
}

func TestMultiPublishesToAll(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Multi{a, nil, b}.Publish("court", EventCaseFiled, Event{})

	assert.Equal(t, []string{"court"}, a.rooms)
	assert.Equal(t, []string{"court"}, b.rooms)
}

func TestRooms(t *testing.T) {
	id, _ := primitive.ObjectIDFromHex("65f1c0a2b3d4e5f6a7b8c9d0")
	assert.Equal(t, "user-65f1c0a2b3d4e5f6a7b8c9d0", UserRoom(id))
	assert.Equal(t, "police", RoleRoom(models.RolePolice))
}
