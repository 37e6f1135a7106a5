// Package realtime pushes transient workflow events to connected clients.
// Events carry identifiers only; clients fetch details through the API.
package realtime

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/models"
)

// Event names published by the workflow
const (
	EventNewComplaint = "newComplaint"
	EventFIRFiled     = "firFiled"
	EventCaseFiled    = "caseFiled"
	EventStatusUpdate = "statusUpdate"
	EventNotification = "new_notification"
)

// Event is the payload delivered to subscribers
type Event struct {
	EventID    string    `json:"eventId"`
	EntityID   string    `json:"entityId"`
	EntityType string    `json:"entityType"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher delivers an event to every subscriber of room. Delivery is
// best-effort and never reports failure to the caller.
type Publisher interface {
	Publish(room, eventName string, payload Event)
}

// UserRoom is the room joined by every connection of one user
func UserRoom(id primitive.ObjectID) string {
	return "user-" + id.Hex()
}

// RoleRoom is the room joined by every connection of a role
func RoleRoom(role models.Role) string {
	return string(role)
}

// Multi publishes to each of its publishers in turn
type Multi []Publisher

// Publish implements Publisher
func (m Multi) Publish(room, eventName string, payload Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(room, eventName, payload)
		}
	}
}
