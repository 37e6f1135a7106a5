package workflow

import (
	"time"

	"github.com/linesmerrill/case-tracker-api/models"
)

// ComplaintInput is what a citizen supplies when filing a complaint
type ComplaintInput struct {
	ComplaintType string               `json:"complaintType"`
	Description   string               `json:"description"`
	Location      string               `json:"location"`
	IncidentDate  time.Time            `json:"incidentDate"`
	Priority      string               `json:"priority"`
	Evidence      []models.EvidenceRef `json:"evidence"`
}

func (in ComplaintInput) validate() error {
	var errs fieldErrors
	errs.oneOf("complaintType", in.ComplaintType, models.ComplaintTypes)
	errs.minLength("description", in.Description, 10)
	errs.required("location", in.Location)
	if in.IncidentDate.IsZero() {
		errs.add("incidentDate", "is required")
	}
	if in.Priority != "" {
		errs.oneOf("priority", in.Priority, models.Priorities)
	}
	for _, ev := range in.Evidence {
		if ev.Reference == "" {
			errs.add("evidence", "every item needs a reference")
			break
		}
	}
	return errs.err()
}

// FIRInput is what an officer supplies when filing an FIR
type FIRInput struct {
	// PoliceStation defaults to the officer's own station
	PoliceStation string           `json:"policeStation"`
	FIRDetails    string           `json:"firDetails"`
	Sections      []string         `json:"sections"`
	Accused       []models.Accused `json:"accusedDetails"`
	Witnesses     []models.Witness `json:"witnessDetails"`
}

func (in FIRInput) validate() error {
	var errs fieldErrors
	errs.minLength("firDetails", in.FIRDetails, 20)
	errs.required("policeStation", in.PoliceStation)
	sections := 0
	for _, s := range in.Sections {
		if s != "" {
			sections++
		}
	}
	if sections == 0 {
		errs.add("sections", "at least one legal section is required")
	}
	for _, a := range in.Accused {
		if a.Name == "" {
			errs.add("accusedDetails", "every accused needs a name")
			break
		}
	}
	for _, w := range in.Witnesses {
		if w.Name == "" {
			errs.add("witnessDetails", "every witness needs a name")
			break
		}
	}
	return errs.err()
}

// CaseFileInput is what a court (or officer) supplies when filing a case
type CaseFileInput struct {
	CaseType         string                `json:"caseType"`
	CaseDetails      string                `json:"caseDetails"`
	JudgeName        string                `json:"judgeName"`
	PublicProsecutor string                `json:"publicProsecutor"`
	Charges          []models.Charge       `json:"charges"`
	Accused          []models.AccusedParty `json:"accusedDetails"`
	Documents        []models.EvidenceRef  `json:"documents"`
}

func (in CaseFileInput) validate() error {
	var errs fieldErrors
	errs.oneOf("caseType", in.CaseType, models.CaseTypes)
	errs.minLength("caseDetails", in.CaseDetails, 20)
	errs.required("judgeName", in.JudgeName)
	errs.required("publicProsecutor", in.PublicProsecutor)
	for _, c := range in.Charges {
		if c.Section == "" || c.Description == "" {
			errs.add("charges", "every charge needs a section and description")
			break
		}
	}
	for _, a := range in.Accused {
		if a.Name == "" {
			errs.add("accusedDetails", "every accused needs a name")
			break
		}
		if a.Status != "" && !models.OneOf(a.Status, models.CustodyStatuses) {
			errs.oneOf("accusedDetails.status", a.Status, models.CustodyStatuses)
			break
		}
	}
	return errs.err()
}

// HearingInput schedules the next hearing of a case
type HearingInput struct {
	Date    time.Time `json:"date"`
	Purpose string    `json:"purpose"`
	Notes   string    `json:"notes"`
}

func (in HearingInput) validate() error {
	var errs fieldErrors
	if in.Date.IsZero() {
		errs.add("date", "is required")
	}
	errs.required("purpose", in.Purpose)
	return errs.err()
}

// JudgmentInput is the court's final record. JudgmentDate defaults to now.
type JudgmentInput struct {
	Verdict      string    `json:"verdict"`
	Sentence     string    `json:"sentence"`
	Fine         float64   `json:"fine"`
	JudgmentText string    `json:"judgmentText"`
	JudgmentDate time.Time `json:"judgmentDate"`
}

func (in JudgmentInput) validate() error {
	var errs fieldErrors
	errs.oneOf("verdict", in.Verdict, models.Verdicts)
	errs.minLength("judgmentText", in.JudgmentText, 20)
	if in.Fine < 0 {
		errs.add("fine", "must not be negative")
	}
	return errs.err()
}

func validateNote(note string) error {
	var errs fieldErrors
	errs.minLength("note", note, 10)
	return errs.err()
}
