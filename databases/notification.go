package databases

// go generate: mockery --name NotificationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/models"
)

const notificationName = "notifications"

// NotificationDatabase contains the methods to use with the notification database
type NotificationDatabase interface {
	InsertMany(ctx context.Context, notifications []models.Notification) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	FindByRecipient(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool, page, limit int) ([]models.Notification, error)
	CountByRecipient(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool) (int64, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) (int64, error)
	DeleteOne(ctx context.Context, id primitive.ObjectID) error
}

type notificationDatabase struct {
	db DatabaseHelper
}

// NewNotificationDatabase initializes a new instance of notification database with the provided db connection
func NewNotificationDatabase(db DatabaseHelper) NotificationDatabase {
	return &notificationDatabase{
		db: db,
	}
}

func (n *notificationDatabase) InsertMany(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	docs := make([]interface{}, len(notifications))
	for i := range notifications {
		docs[i] = notifications[i]
	}
	return n.db.Collection(notificationName).InsertMany(ctx, docs)
}

func (n *notificationDatabase) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	notification := &models.Notification{}
	err := n.db.Collection(notificationName).FindOne(ctx, bson.M{"_id": id}).Decode(notification)
	if err != nil {
		return nil, err
	}
	return notification, nil
}

func recipientFilter(recipientID primitive.ObjectID, unreadOnly bool) bson.M {
	filter := bson.M{"recipientID": recipientID}
	if unreadOnly {
		filter["isRead"] = false
	}
	return filter
}

func (n *notificationDatabase) FindByRecipient(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool, page, limit int) ([]models.Notification, error) {
	opts := newMongoPaginate(limit, page).getPaginatedOpts()
	opts.SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	var notifications []models.Notification
	curr, err := n.db.Collection(notificationName).Find(ctx, recipientFilter(recipientID, unreadOnly), opts)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &notifications)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (n *notificationDatabase) CountByRecipient(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool) (int64, error) {
	return n.db.Collection(notificationName).CountDocuments(ctx, recipientFilter(recipientID, unreadOnly))
}

func (n *notificationDatabase) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	matched, err := n.db.Collection(notificationName).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrNoDocuments
	}
	return nil
}

func (n *notificationDatabase) MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return n.db.Collection(notificationName).UpdateMany(ctx, recipientFilter(recipientID, true), bson.M{"$set": bson.M{"isRead": true}})
}

func (n *notificationDatabase) DeleteOne(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := n.db.Collection(notificationName).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNoDocuments
	}
	return nil
}
