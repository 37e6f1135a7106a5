package databases

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	complaintCitizenIndex = "citizenID_id_unique"
	firNumberIndex        = "firNumber_unique"
	caseNumberIndex       = "caseNumber_unique"
	caseFIRIndex          = "firID_unique"
)

// EnsureIndexes creates the unique constraints the workflow relies on plus
// the lookup indexes behind its queries. Creating an existing index is a no-op.
func EnsureIndexes(ctx context.Context, db DatabaseHelper) error {
	indexes := map[string][]mongo.IndexModel{
		complaintName: {
			{Keys: bson.D{{Key: "complaint.citizenID", Value: 1}, {Key: "_id", Value: 1}}, Options: options.Index().SetName(complaintCitizenIndex).SetUnique(true)},
			{Keys: bson.D{{Key: "complaint.status", Value: 1}}},
			{Keys: bson.D{{Key: "complaint.assignedOfficer", Value: 1}}},
		},
		firName: {
			{Keys: bson.D{{Key: "fir.firNumber", Value: 1}}, Options: options.Index().SetName(firNumberIndex).SetUnique(true)},
			{Keys: bson.D{{Key: "fir.complaintID", Value: 1}}},
			{Keys: bson.D{{Key: "fir.investigatingOfficerID", Value: 1}}},
		},
		caseFileName: {
			{Keys: bson.D{{Key: "caseFile.caseNumber", Value: 1}}, Options: options.Index().SetName(caseNumberIndex).SetUnique(true)},
			{Keys: bson.D{{Key: "caseFile.firID", Value: 1}}, Options: options.Index().SetName(caseFIRIndex).SetUnique(true)},
			{Keys: bson.D{{Key: "caseFile.complaintID", Value: 1}}},
		},
		notificationName: {
			{Keys: bson.D{{Key: "recipientID", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		userName: {
			{Keys: bson.D{{Key: "user.role", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if err := db.Collection(collection).CreateIndexes(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
