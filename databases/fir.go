package databases

// go generate: mockery --name FIRDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/case-tracker-api/models"
)

const firName = "firs"

// FIRFilter narrows an FIR listing. Zero fields do not filter.
type FIRFilter struct {
	OfficerID    *primitive.ObjectID
	ComplaintIDs []primitive.ObjectID
}

// FIRDatabase contains the methods to use with the FIR database
type FIRDatabase interface {
	InsertOne(ctx context.Context, fir *models.FIR) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.FIR, error)
	FindByNumber(ctx context.Context, number string) (*models.FIR, error)
	// FindByComplaint returns the earliest FIR filed against the complaint
	FindByComplaint(ctx context.Context, complaintID primitive.ObjectID) (*models.FIR, error)
	Find(ctx context.Context, filter FIRFilter) ([]models.FIR, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, fromStatuses []string, status string) (*models.FIR, error)
	AppendNote(ctx context.Context, id primitive.ObjectID, fromStatuses []string, note models.InvestigationNote) (*models.FIR, error)
	DeleteOne(ctx context.Context, id primitive.ObjectID) error
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

type firDatabase struct {
	db DatabaseHelper
}

var firIndexes = map[string]string{firNumberIndex: "firNumber"}

// NewFIRDatabase initializes a new instance of FIR database with the provided db connection
func NewFIRDatabase(db DatabaseHelper) FIRDatabase {
	return &firDatabase{
		db: db,
	}
}

func (f *firDatabase) InsertOne(ctx context.Context, fir *models.FIR) error {
	_, err := f.db.Collection(firName).InsertOne(ctx, fir)
	return translateWriteError(firName, err, firIndexes)
}

func (f *firDatabase) findOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.FIR, error) {
	fir := &models.FIR{}
	err := f.db.Collection(firName).FindOne(ctx, filter, opts...).Decode(fir)
	if err != nil {
		return nil, err
	}
	return fir, nil
}

func (f *firDatabase) FindByID(ctx context.Context, id primitive.ObjectID) (*models.FIR, error) {
	return f.findOne(ctx, bson.M{"_id": id})
}

func (f *firDatabase) FindByNumber(ctx context.Context, number string) (*models.FIR, error) {
	return f.findOne(ctx, bson.M{"fir.firNumber": number})
}

func (f *firDatabase) FindByComplaint(ctx context.Context, complaintID primitive.ObjectID) (*models.FIR, error) {
	return f.findOne(ctx, bson.M{"fir.complaintID": complaintID}, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (f *firDatabase) Find(ctx context.Context, filter FIRFilter) ([]models.FIR, error) {
	q := bson.M{}
	if filter.OfficerID != nil {
		q["fir.investigatingOfficerID"] = *filter.OfficerID
	}
	if filter.ComplaintIDs != nil {
		q["fir.complaintID"] = bson.M{"$in": filter.ComplaintIDs}
	}

	var firs []models.FIR
	curr, err := f.db.Collection(firName).Find(ctx, q, newestFirst())
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &firs)
	if err != nil {
		return nil, err
	}
	return firs, nil
}

func (f *firDatabase) update(ctx context.Context, id primitive.ObjectID, fromStatuses []string, update bson.M) (*models.FIR, error) {
	filter := statusGuard(bson.M{"_id": id}, "fir.status", fromStatuses)
	fir := &models.FIR{}
	err := decodeGuarded(f.db.Collection(firName).FindOneAndUpdate(ctx, filter, update, returnAfter()), fir)
	if err != nil {
		return nil, err
	}
	return fir, nil
}

func (f *firDatabase) UpdateStatus(ctx context.Context, id primitive.ObjectID, fromStatuses []string, status string) (*models.FIR, error) {
	return f.update(ctx, id, fromStatuses, bson.M{
		"$set": bson.M{
			"fir.status":    status,
			"fir.updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		},
		"$inc": bson.M{"__v": 1},
	})
}

func (f *firDatabase) AppendNote(ctx context.Context, id primitive.ObjectID, fromStatuses []string, note models.InvestigationNote) (*models.FIR, error) {
	return f.update(ctx, id, fromStatuses, bson.M{
		"$push": bson.M{"fir.investigationNotes": note},
		"$set":  bson.M{"fir.updatedAt": primitive.NewDateTimeFromTime(time.Now())},
		"$inc":  bson.M{"__v": 1},
	})
}

func (f *firDatabase) DeleteOne(ctx context.Context, id primitive.ObjectID) error {
	_, err := f.db.Collection(firName).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (f *firDatabase) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	return f.db.Collection(firName).CountDocuments(ctx, bson.M{"fir.firNumber": bson.M{"$regex": "^" + prefix}})
}
