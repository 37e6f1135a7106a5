package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Complaint holds the structure for the complaints collection in mongo
type Complaint struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details ComplaintDetails   `json:"complaint" bson:"complaint"`
	Version int32              `json:"__v" bson:"__v"`
}

// ComplaintDetails holds the structure for the inner complaint details
type ComplaintDetails struct {
	// Citizen
	CitizenID    primitive.ObjectID `json:"citizenID" bson:"citizenID"`
	CitizenName  string             `json:"citizenName" bson:"citizenName"`
	CitizenEmail string             `json:"citizenEmail" bson:"citizenEmail"`
	CitizenPhone string             `json:"citizenPhone" bson:"citizenPhone"`

	// Incident
	ComplaintType string             `json:"complaintType" bson:"complaintType"`
	Description   string             `json:"description" bson:"description"`
	Location      string             `json:"location" bson:"location"`
	IncidentDate  primitive.DateTime `json:"incidentDate" bson:"incidentDate"`
	Evidence      []EvidenceRef      `json:"evidence" bson:"evidence"`

	// Status: "pending", "under_review", "fir_filed", "case_filed", "resolved"
	Status   string `json:"status" bson:"status"`
	Priority string `json:"priority" bson:"priority"`

	// Assignment
	AssignedPoliceStation string              `json:"assignedPoliceStation" bson:"assignedPoliceStation"`
	AssignedOfficer       *primitive.ObjectID `json:"assignedOfficer" bson:"assignedOfficer"`

	// Derived from the FIR and case file once they exist
	FIRNumber  string `json:"firNumber" bson:"firNumber"`
	CaseNumber string `json:"caseNumber" bson:"caseNumber"`

	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// EvidenceRef is a pointer into the evidence store; the bytes never live here
type EvidenceRef struct {
	Reference    string             `json:"reference" bson:"reference"`
	OriginalName string             `json:"originalName" bson:"originalName"`
	UploadedAt   primitive.DateTime `json:"uploadedAt" bson:"uploadedAt"`
}

// ComplaintChange is a partial update applied to a complaint by the workflow
type ComplaintChange struct {
	Status                *string
	AssignedOfficer       *primitive.ObjectID
	AssignedPoliceStation *string
	FIRNumber             *string
	CaseNumber            *string
}
