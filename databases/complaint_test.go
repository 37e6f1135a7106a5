package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/databases/mocks"
	"github.com/linesmerrill/case-tracker-api/models"
)

func TestNewComplaintDatabase(t *testing.T) {
	_ = os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	_ = os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	complaintDB := databases.NewComplaintDatabase(db)

	assert.NotEmpty(t, complaintDB)
}

func TestComplaintDatabase_FindByID(t *testing.T) {

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperErr databases.SingleResultHelper
	var srHelperCorrect databases.SingleResultHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperErr = &mocks.SingleResultHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	missing := primitive.NewObjectID()
	found := primitive.NewObjectID()

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(mongo.ErrNoDocuments)

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.Complaint)
		arg.ID = found
		arg.Details.Description = "mocked-complaint"
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"_id": missing}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"_id": found}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "complaints").Return(collectionHelper)

	complaintDba := databases.NewComplaintDatabase(dbHelper)

	complaint, err := complaintDba.FindByID(context.Background(), missing)

	assert.Empty(t, complaint)
	assert.ErrorIs(t, err, databases.ErrNoDocuments)

	complaint, err = complaintDba.FindByID(context.Background(), found)

	assert.Equal(t, found, complaint.ID)
	assert.Equal(t, "mocked-complaint", complaint.Details.Description)
	assert.NoError(t, err)
}

func TestComplaintDatabase_UpdateGuardMiss(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelper databases.SingleResultHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelper = &mocks.SingleResultHelper{}

	id := primitive.NewObjectID()
	status := models.ComplaintFIRFiled

	srHelper.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(mongo.ErrNoDocuments)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOneAndUpdate", context.Background(),
			bson.M{"_id": id, "complaint.status": bson.M{"$in": []string{models.ComplaintPending}}},
			mock.Anything, mock.Anything).
		Return(srHelper)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "complaints").Return(collectionHelper)

	complaintDba := databases.NewComplaintDatabase(dbHelper)

	complaint, err := complaintDba.Update(context.Background(), id, []string{models.ComplaintPending}, models.ComplaintChange{Status: &status})

	assert.Nil(t, complaint)
	assert.ErrorIs(t, err, databases.ErrPreconditionFailed)
}

func TestComplaintDatabase_FindScopesOfficer(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var cursorHelper databases.CursorHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	cursorHelper = &mocks.CursorHelper{}

	officer := primitive.NewObjectID()

	cursorHelper.(*mocks.CursorHelper).
		On("All", context.Background(), mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Complaint)
		*arg = []models.Complaint{{ID: primitive.NewObjectID()}}
	})
	cursorHelper.(*mocks.CursorHelper).
		On("Close", context.Background()).Return(nil)

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(),
			bson.M{"complaint.assignedOfficer": bson.M{"$in": []interface{}{officer, nil}}},
			mock.Anything).
		Return(cursorHelper, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "complaints").Return(collectionHelper)

	complaints, err := databases.NewComplaintDatabase(dbHelper).Find(context.Background(), databases.ComplaintFilter{OfficerID: &officer})

	assert.NoError(t, err)
	assert.Len(t, complaints, 1)
}

func TestComplaintDatabase_FindError(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), mock.Anything, mock.Anything).
		Return(nil, errors.New("mocked-error"))

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "complaints").Return(collectionHelper)

	complaints, err := databases.NewComplaintDatabase(dbHelper).Find(context.Background(), databases.ComplaintFilter{})

	assert.Empty(t, complaints)
	assert.EqualError(t, err, "mocked-error")
}
