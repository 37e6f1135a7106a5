package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CaseFile holds the structure for the casefiles collection in mongo
type CaseFile struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details CaseFileDetails    `json:"caseFile" bson:"caseFile"`
	Version int32              `json:"__v" bson:"__v"`
}

// CaseFileDetails holds the structure for the inner case file details
type CaseFileDetails struct {
	CaseNumber  string             `json:"caseNumber" bson:"caseNumber"` // CASE-{year}-{seq}
	FIRID       primitive.ObjectID `json:"firID" bson:"firID"`
	ComplaintID primitive.ObjectID `json:"complaintID" bson:"complaintID"`

	// Court
	CourtName        string             `json:"courtName" bson:"courtName"`
	JudgeName        string             `json:"judgeName" bson:"judgeName"`
	PublicProsecutor string             `json:"publicProsecutor" bson:"publicProsecutor"`
	FiledBy          primitive.ObjectID `json:"filedBy" bson:"filedBy"`

	CaseType    string         `json:"caseType" bson:"caseType"`
	CaseDetails string         `json:"caseDetails" bson:"caseDetails"`
	Charges     []Charge       `json:"charges" bson:"charges"`
	Accused     []AccusedParty `json:"accusedDetails" bson:"accusedDetails"`
	Documents   []EvidenceRef  `json:"documents" bson:"documents"`

	// Status: "filed", "hearing", "judgment", "appealed", "closed"
	Status string `json:"caseStatus" bson:"caseStatus"`

	Hearings        []Hearing           `json:"hearingDates" bson:"hearingDates"`
	NextHearingDate *primitive.DateTime `json:"nextHearingDate" bson:"nextHearingDate"`

	// Set exactly once, by recordJudgment
	Judgment *Judgment `json:"judgment" bson:"judgment"`

	FiledDate primitive.DateTime `json:"filedDate" bson:"filedDate"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// Charge is a single charge brought in a case
type Charge struct {
	Section     string `json:"section" bson:"section"`
	Description string `json:"description" bson:"description"`
	Punishment  string `json:"punishment" bson:"punishment"`
}

// AccusedParty is an accused person on the court roster
type AccusedParty struct {
	Name    string `json:"name" bson:"name"`
	Age     int    `json:"age,omitempty" bson:"age,omitempty"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
	Status  string `json:"status" bson:"status"` // "absconding", "on_bail", "in_custody", "acquitted", "convicted"
}

// Hearing is one entry in the hearing log
type Hearing struct {
	Date    primitive.DateTime `json:"date" bson:"date"`
	Purpose string             `json:"purpose" bson:"purpose"`
	Status  string             `json:"status" bson:"status"` // "scheduled", "completed", "adjourned", "cancelled"
	Notes   string             `json:"notes" bson:"notes"`
}

// Judgment is the court's final record on a case
type Judgment struct {
	Verdict      string             `json:"verdict" bson:"verdict"`
	Sentence     string             `json:"sentence" bson:"sentence"`
	Fine         float64            `json:"fine" bson:"fine"`
	JudgmentDate primitive.DateTime `json:"judgmentDate" bson:"judgmentDate"`
	JudgmentText string             `json:"judgmentText" bson:"judgmentText"`
}
