package databases

// go generate: mockery --name ComplaintDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/models"
)

const complaintName = "complaints"

// ComplaintFilter narrows a complaint listing. Zero fields do not filter.
type ComplaintFilter struct {
	CitizenID *primitive.ObjectID
	// OfficerID matches complaints assigned to the officer or not yet assigned
	OfficerID *primitive.ObjectID
	Statuses  []string
	Limit     int64
}

// ComplaintDatabase contains the methods to use with the complaint database
type ComplaintDatabase interface {
	InsertOne(ctx context.Context, complaint *models.Complaint) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error)
	Find(ctx context.Context, filter ComplaintFilter) ([]models.Complaint, error)
	// Update applies change only while the complaint's status is one of
	// fromStatuses (any status when empty) and returns the updated document.
	Update(ctx context.Context, id primitive.ObjectID, fromStatuses []string, change models.ComplaintChange) (*models.Complaint, error)
}

type complaintDatabase struct {
	db DatabaseHelper
}

// NewComplaintDatabase initializes a new instance of complaint database with the provided db connection
func NewComplaintDatabase(db DatabaseHelper) ComplaintDatabase {
	return &complaintDatabase{
		db: db,
	}
}

func (c *complaintDatabase) InsertOne(ctx context.Context, complaint *models.Complaint) error {
	_, err := c.db.Collection(complaintName).InsertOne(ctx, complaint)
	return translateWriteError(complaintName, err, nil)
}

func (c *complaintDatabase) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	complaint := &models.Complaint{}
	err := c.db.Collection(complaintName).FindOne(ctx, bson.M{"_id": id}).Decode(complaint)
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

func (c *complaintDatabase) Find(ctx context.Context, filter ComplaintFilter) ([]models.Complaint, error) {
	q := bson.M{}
	if filter.CitizenID != nil {
		q["complaint.citizenID"] = *filter.CitizenID
	}
	if filter.OfficerID != nil {
		q["complaint.assignedOfficer"] = bson.M{"$in": []interface{}{*filter.OfficerID, nil}}
	}
	statusGuard(q, "complaint.status", filter.Statuses)

	opts := newestFirst()
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	var complaints []models.Complaint
	curr, err := c.db.Collection(complaintName).Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &complaints)
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (c *complaintDatabase) Update(ctx context.Context, id primitive.ObjectID, fromStatuses []string, change models.ComplaintChange) (*models.Complaint, error) {
	set := bson.M{"complaint.updatedAt": primitive.NewDateTimeFromTime(time.Now())}
	if change.Status != nil {
		set["complaint.status"] = *change.Status
	}
	if change.AssignedOfficer != nil {
		set["complaint.assignedOfficer"] = *change.AssignedOfficer
	}
	if change.AssignedPoliceStation != nil {
		set["complaint.assignedPoliceStation"] = *change.AssignedPoliceStation
	}
	if change.FIRNumber != nil {
		set["complaint.firNumber"] = *change.FIRNumber
	}
	if change.CaseNumber != nil {
		set["complaint.caseNumber"] = *change.CaseNumber
	}

	filter := statusGuard(bson.M{"_id": id}, "complaint.status", fromStatuses)
	update := bson.M{"$set": set, "$inc": bson.M{"__v": 1}}

	complaint := &models.Complaint{}
	err := decodeGuarded(c.db.Collection(complaintName).FindOneAndUpdate(ctx, filter, update, returnAfter()), complaint)
	if err != nil {
		return nil, err
	}
	return complaint, nil
}
