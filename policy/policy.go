// Package policy decides whether an actor may perform an action on a record.
// It performs no I/O; callers load the ownership facts into a Resource.
package policy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/models"
)

// Action names a workflow operation or a read
type Action string

// Actions checked by the workflow engine
const (
	FileComplaint         Action = "file_complaint"
	AssignComplaint       Action = "assign_complaint"
	UpdateComplaintStatus Action = "update_complaint_status"
	FileFIR               Action = "file_fir"
	UpdateFIRStatus       Action = "update_fir_status"
	AddInvestigationNote  Action = "add_investigation_note"
	FileCase              Action = "file_case"
	UpdateCaseStatus      Action = "update_case_status"
	ScheduleHearing       Action = "schedule_hearing"
	RecordJudgment        Action = "record_judgment"
	Read                  Action = "read"
)

// Resource carries the ownership facts of the record an action targets.
// Fields that do not apply to the record are left zero.
type Resource struct {
	Kind string

	// CitizenID is the owner of the complaint at the root of the chain
	CitizenID primitive.ObjectID
	// AssignedOfficer is the complaint's assigned officer, if any
	AssignedOfficer *primitive.ObjectID
	// InvestigatingOfficer is the officer on the chain's FIR, if one exists
	InvestigatingOfficer *primitive.ObjectID
}

// ComplaintResource describes a complaint and, when fir is non-nil, the FIR filed against it
func ComplaintResource(c models.Complaint, fir *models.FIR) Resource {
	r := Resource{
		Kind:            models.RelatedComplaint,
		CitizenID:       c.Details.CitizenID,
		AssignedOfficer: c.Details.AssignedOfficer,
	}
	if fir != nil {
		officer := fir.Details.InvestigatingOfficerID
		r.InvestigatingOfficer = &officer
	}
	return r
}

// FIRResource describes an FIR owned through complaint
func FIRResource(f models.FIR, complaint models.Complaint) Resource {
	officer := f.Details.InvestigatingOfficerID
	return Resource{
		Kind:                 models.RelatedFIR,
		CitizenID:            complaint.Details.CitizenID,
		AssignedOfficer:      complaint.Details.AssignedOfficer,
		InvestigatingOfficer: &officer,
	}
}

// CaseResource describes a case file reached through fir and complaint
func CaseResource(fir models.FIR, complaint models.Complaint) Resource {
	r := FIRResource(fir, complaint)
	r.Kind = models.RelatedCase
	return r
}

func is(id *primitive.ObjectID, actor primitive.ObjectID) bool {
	return id != nil && *id == actor
}

// CanPerform reports whether actor may perform action on res
func CanPerform(actor models.Actor, action Action, res Resource) bool {
	role := actor.Role()
	switch action {
	case FileComplaint:
		return role == models.RoleCitizen
	case AssignComplaint:
		return role == models.RolePolice
	case FileFIR, UpdateComplaintStatus:
		return role == models.RolePolice && (res.AssignedOfficer == nil || *res.AssignedOfficer == actor.ID)
	case UpdateFIRStatus, AddInvestigationNote:
		return role == models.RolePolice && is(res.InvestigatingOfficer, actor.ID)
	case FileCase:
		return role == models.RoleCourt || role == models.RolePolice
	case UpdateCaseStatus, ScheduleHearing, RecordJudgment:
		return role == models.RoleCourt
	case Read:
		return canRead(actor, res)
	}
	return false
}

func canRead(actor models.Actor, res Resource) bool {
	switch actor.Role() {
	case models.RoleCourt:
		return true
	case models.RoleCitizen:
		return res.CitizenID == actor.ID
	case models.RolePolice:
		if is(res.InvestigatingOfficer, actor.ID) {
			return true
		}
		// an open complaint is visible to every officer until someone is assigned
		return res.Kind == models.RelatedComplaint && res.InvestigatingOfficer == nil &&
			(res.AssignedOfficer == nil || *res.AssignedOfficer == actor.ID)
	}
	return false
}
