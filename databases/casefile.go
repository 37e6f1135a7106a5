package databases

// go generate: mockery --name CaseFileDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/models"
)

const caseFileName = "casefiles"

// CaseFileFilter narrows a case file listing. Zero fields do not filter.
type CaseFileFilter struct {
	ComplaintIDs []primitive.ObjectID
	FIRIDs       []primitive.ObjectID
}

// CaseFileDatabase contains the methods to use with the case file database
type CaseFileDatabase interface {
	InsertOne(ctx context.Context, caseFile *models.CaseFile) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CaseFile, error)
	FindByNumber(ctx context.Context, number string) (*models.CaseFile, error)
	FindByFIR(ctx context.Context, firID primitive.ObjectID) (*models.CaseFile, error)
	FindByComplaint(ctx context.Context, complaintID primitive.ObjectID) (*models.CaseFile, error)
	Find(ctx context.Context, filter CaseFileFilter) ([]models.CaseFile, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, fromStatuses []string, status string) (*models.CaseFile, error)
	// AddHearing appends to the hearing log, moves the case to status and
	// points nextHearingDate at the new hearing
	AddHearing(ctx context.Context, id primitive.ObjectID, fromStatuses []string, hearing models.Hearing, status string) (*models.CaseFile, error)
	// SetJudgment records the judgment and moves the case to judgment; it
	// never overwrites an existing judgment
	SetJudgment(ctx context.Context, id primitive.ObjectID, fromStatuses []string, judgment models.Judgment) (*models.CaseFile, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

type caseFileDatabase struct {
	db DatabaseHelper
}

var caseFileIndexes = map[string]string{
	caseNumberIndex: "caseNumber",
	caseFIRIndex:    "firID",
}

// NewCaseFileDatabase initializes a new instance of case file database with the provided db connection
func NewCaseFileDatabase(db DatabaseHelper) CaseFileDatabase {
	return &caseFileDatabase{
		db: db,
	}
}

func (c *caseFileDatabase) InsertOne(ctx context.Context, caseFile *models.CaseFile) error {
	_, err := c.db.Collection(caseFileName).InsertOne(ctx, caseFile)
	return translateWriteError(caseFileName, err, caseFileIndexes)
}

func (c *caseFileDatabase) findOne(ctx context.Context, filter interface{}) (*models.CaseFile, error) {
	caseFile := &models.CaseFile{}
	err := c.db.Collection(caseFileName).FindOne(ctx, filter).Decode(caseFile)
	if err != nil {
		return nil, err
	}
	return caseFile, nil
}

func (c *caseFileDatabase) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CaseFile, error) {
	return c.findOne(ctx, bson.M{"_id": id})
}

func (c *caseFileDatabase) FindByNumber(ctx context.Context, number string) (*models.CaseFile, error) {
	return c.findOne(ctx, bson.M{"caseFile.caseNumber": number})
}

func (c *caseFileDatabase) FindByFIR(ctx context.Context, firID primitive.ObjectID) (*models.CaseFile, error) {
	return c.findOne(ctx, bson.M{"caseFile.firID": firID})
}

func (c *caseFileDatabase) FindByComplaint(ctx context.Context, complaintID primitive.ObjectID) (*models.CaseFile, error) {
	return c.findOne(ctx, bson.M{"caseFile.complaintID": complaintID})
}

func (c *caseFileDatabase) Find(ctx context.Context, filter CaseFileFilter) ([]models.CaseFile, error) {
	q := bson.M{}
	if filter.ComplaintIDs != nil {
		q["caseFile.complaintID"] = bson.M{"$in": filter.ComplaintIDs}
	}
	if filter.FIRIDs != nil {
		q["caseFile.firID"] = bson.M{"$in": filter.FIRIDs}
	}

	var caseFiles []models.CaseFile
	curr, err := c.db.Collection(caseFileName).Find(ctx, q, newestFirst())
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &caseFiles)
	if err != nil {
		return nil, err
	}
	return caseFiles, nil
}

func (c *caseFileDatabase) update(ctx context.Context, filter bson.M, update bson.M) (*models.CaseFile, error) {
	caseFile := &models.CaseFile{}
	err := decodeGuarded(c.db.Collection(caseFileName).FindOneAndUpdate(ctx, filter, update, returnAfter()), caseFile)
	if err != nil {
		return nil, err
	}
	return caseFile, nil
}

func (c *caseFileDatabase) UpdateStatus(ctx context.Context, id primitive.ObjectID, fromStatuses []string, status string) (*models.CaseFile, error) {
	return c.update(ctx, statusGuard(bson.M{"_id": id}, "caseFile.caseStatus", fromStatuses), bson.M{
		"$set": bson.M{
			"caseFile.caseStatus": status,
			"caseFile.updatedAt":  primitive.NewDateTimeFromTime(time.Now()),
		},
		"$inc": bson.M{"__v": 1},
	})
}

func (c *caseFileDatabase) AddHearing(ctx context.Context, id primitive.ObjectID, fromStatuses []string, hearing models.Hearing, status string) (*models.CaseFile, error) {
	return c.update(ctx, statusGuard(bson.M{"_id": id}, "caseFile.caseStatus", fromStatuses), bson.M{
		"$push": bson.M{"caseFile.hearingDates": hearing},
		"$set": bson.M{
			"caseFile.caseStatus":      status,
			"caseFile.nextHearingDate": hearing.Date,
			"caseFile.updatedAt":       primitive.NewDateTimeFromTime(time.Now()),
		},
		"$inc": bson.M{"__v": 1},
	})
}

func (c *caseFileDatabase) SetJudgment(ctx context.Context, id primitive.ObjectID, fromStatuses []string, judgment models.Judgment) (*models.CaseFile, error) {
	filter := statusGuard(bson.M{"_id": id, "caseFile.judgment": nil}, "caseFile.caseStatus", fromStatuses)
	return c.update(ctx, filter, bson.M{
		"$set": bson.M{
			"caseFile.judgment":   judgment,
			"caseFile.caseStatus": models.CaseJudgment,
			"caseFile.updatedAt":  primitive.NewDateTimeFromTime(time.Now()),
		},
		"$inc": bson.M{"__v": 1},
	})
}

func (c *caseFileDatabase) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	return c.db.Collection(caseFileName).CountDocuments(ctx, bson.M{"caseFile.caseNumber": bson.M{"$regex": "^" + prefix}})
}
