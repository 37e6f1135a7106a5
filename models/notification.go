package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Notification types, one per transition family
const (
	NotificationComplaintRegistered = "complaint_registered"
	NotificationFIRFiled            = "fir_filed"
	NotificationCaseFiled           = "case_filed"
	NotificationHearingScheduled    = "hearing_scheduled"
	NotificationStatusUpdate        = "status_update"
	NotificationGeneral             = "general"
)

// Related entity types carried by notifications and realtime events
const (
	RelatedComplaint = "complaint"
	RelatedFIR       = "fir"
	RelatedCase      = "case"
)

// Notification holds the structure for the notifications collection in mongo.
// Only IsRead ever changes after insert.
type Notification struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id"`
	RecipientID   primitive.ObjectID `json:"recipientID" bson:"recipientID"`
	RecipientRole Role               `json:"recipientRole" bson:"recipientRole"`
	Type          string             `json:"type" bson:"type"`
	Title         string             `json:"title" bson:"title"`
	Message       string             `json:"message" bson:"message"`
	RelatedID     primitive.ObjectID `json:"relatedID" bson:"relatedID"`
	RelatedType   string             `json:"relatedType" bson:"relatedType"`
	IsRead        bool               `json:"isRead" bson:"isRead"`
	Priority      string             `json:"priority" bson:"priority"`
	CreatedAt     primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// NotificationPage is a page of a recipient's inbox
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	Page          int            `json:"currentPage"`
	Limit         int            `json:"limit"`
	Total         int64          `json:"total"`
	TotalPages    int            `json:"totalPages"`
	UnreadCount   int64          `json:"unreadCount"`
}
