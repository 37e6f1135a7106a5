package databases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/databases/mocks"
	"github.com/linesmerrill/case-tracker-api/models"
)

func TestNotificationDatabase_InsertManyEmptyIsNoop(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}

	err := databases.NewNotificationDatabase(dbHelper).InsertMany(context.Background(), nil)

	assert.NoError(t, err)
	dbHelper.AssertNotCalled(t, "Collection", mock.Anything)
}

func TestNotificationDatabase_InsertMany(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	notifications := []models.Notification{{ID: primitive.NewObjectID()}, {ID: primitive.NewObjectID()}}

	collectionHelper.(*mocks.CollectionHelper).
		On("InsertMany", context.Background(), mock.MatchedBy(func(docs []interface{}) bool { return len(docs) == 2 })).
		Return(nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "notifications").Return(collectionHelper)

	err := databases.NewNotificationDatabase(dbHelper).InsertMany(context.Background(), notifications)

	assert.NoError(t, err)
}

func TestNotificationDatabase_MarkReadMissing(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	id := primitive.NewObjectID()

	collectionHelper.(*mocks.CollectionHelper).
		On("UpdateOne", context.Background(), bson.M{"_id": id}, bson.M{"$set": bson.M{"isRead": true}}).
		Return(int64(0), nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "notifications").Return(collectionHelper)

	err := databases.NewNotificationDatabase(dbHelper).MarkRead(context.Background(), id)

	assert.ErrorIs(t, err, databases.ErrNoDocuments)
}

func TestNotificationDatabase_CountUnread(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	recipient := primitive.NewObjectID()

	collectionHelper.(*mocks.CollectionHelper).
		On("CountDocuments", context.Background(), bson.M{"recipientID": recipient, "isRead": false}).
		Return(int64(3), nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "notifications").Return(collectionHelper)

	n, err := databases.NewNotificationDatabase(dbHelper).CountByRecipient(context.Background(), recipient, true)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
