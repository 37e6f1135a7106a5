package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// FIR holds the structure for the firs collection in mongo
type FIR struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details FIRDetails         `json:"fir" bson:"fir"`
	Version int32              `json:"__v" bson:"__v"`
}

// FIRDetails holds the structure for the inner FIR details
type FIRDetails struct {
	FIRNumber   string             `json:"firNumber" bson:"firNumber"` // FIR-{year}-{seq}
	ComplaintID primitive.ObjectID `json:"complaintID" bson:"complaintID"`

	// Investigating officer
	PoliceStation          string             `json:"policeStation" bson:"policeStation"`
	InvestigatingOfficerID primitive.ObjectID `json:"investigatingOfficerID" bson:"investigatingOfficerID"`
	OfficerName            string             `json:"officerName" bson:"officerName"`

	// Report
	FIRDetails string    `json:"firDetails" bson:"firDetails"`
	Sections   []string  `json:"sections" bson:"sections"`
	Accused    []Accused `json:"accusedDetails" bson:"accusedDetails"`
	Witnesses  []Witness `json:"witnessDetails" bson:"witnessDetails"`

	// Status: "filed", "under_investigation", "chargesheet_filed", "case_filed", "closed"
	Status string `json:"status" bson:"status"`

	InvestigationNotes []InvestigationNote `json:"investigationNotes" bson:"investigationNotes"`

	FiledDate primitive.DateTime `json:"filedDate" bson:"filedDate"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// Accused describes a person named in an FIR
type Accused struct {
	Name     string `json:"name" bson:"name"`
	Age      int    `json:"age,omitempty" bson:"age,omitempty"`
	Address  string `json:"address,omitempty" bson:"address,omitempty"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Relation string `json:"relation,omitempty" bson:"relation,omitempty"`
}

// Witness describes a witness recorded in an FIR
type Witness struct {
	Name      string `json:"name" bson:"name"`
	Age       int    `json:"age,omitempty" bson:"age,omitempty"`
	Address   string `json:"address,omitempty" bson:"address,omitempty"`
	Phone     string `json:"phone,omitempty" bson:"phone,omitempty"`
	Statement string `json:"statement,omitempty" bson:"statement,omitempty"`
}

// InvestigationNote is an append-only entry on an FIR
type InvestigationNote struct {
	Note    string             `json:"note" bson:"note"`
	AddedBy primitive.ObjectID `json:"addedBy" bson:"addedBy"`
	AddedAt primitive.DateTime `json:"addedAt" bson:"addedAt"`
}
