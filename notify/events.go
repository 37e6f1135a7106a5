package notify

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/realtime"
)

// Kind identifies the transition that produced an event
type Kind string

// Transition kinds
const (
	ComplaintFiled    Kind = "complaint_filed"
	ComplaintAssigned Kind = "complaint_assigned"
	ComplaintStatus   Kind = "complaint_status"
	FIRFiled          Kind = "fir_filed"
	FIRStatus         Kind = "fir_status"
	FIRNoteAdded      Kind = "fir_note_added"
	CaseFiled         Kind = "case_filed"
	CaseStatus        Kind = "case_status"
	HearingScheduled  Kind = "hearing_scheduled"
	JudgmentRecorded  Kind = "judgment_recorded"
)

// Event describes a committed transition. Complaint is always set; FIR and
// CaseFile are set once the chain reaches them.
type Event struct {
	Kind      Kind
	Complaint models.Complaint
	FIR       *models.FIR
	CaseFile  *models.CaseFile
}

// audience is a set of recipients sharing one template
type audience int

const (
	toCitizen audience = iota
	toAssignedOfficer
	toInvestigatingOfficer
	toAllPolice
	toAllCourt
)

type message struct {
	to       audience
	kind     string
	title    string
	body     string
	priority string
}

// plan is what one event turns into before recipients are resolved
type plan struct {
	relatedID   primitive.ObjectID
	relatedType string
	messages    []message
	// broadcast is the role-wide realtime event, if any
	broadcast     string
	broadcastRole models.Role
}

func (e Event) subject() (primitive.ObjectID, string) {
	switch {
	case e.CaseFile != nil:
		return e.CaseFile.ID, models.RelatedCase
	case e.FIR != nil:
		return e.FIR.ID, models.RelatedFIR
	}
	return e.Complaint.ID, models.RelatedComplaint
}

func statusMessage(to audience, title, body string) message {
	return message{to: to, kind: models.NotificationStatusUpdate, title: title, body: body, priority: models.PriorityMedium}
}

// planFor maps an event to its templated messages
func planFor(e Event) (plan, error) {
	c := e.Complaint.Details
	p := plan{}
	p.relatedID, p.relatedType = e.subject()

	var fir models.FIRDetails
	if e.FIR != nil {
		fir = e.FIR.Details
	}
	var cf models.CaseFileDetails
	if e.CaseFile != nil {
		cf = e.CaseFile.Details
	}

	switch e.Kind {
	case ComplaintFiled:
		urgency := models.PriorityHigh
		if c.Priority == models.PriorityUrgent {
			urgency = models.PriorityUrgent
		}
		p.messages = []message{
			{toCitizen, models.NotificationComplaintRegistered, "Complaint Registered",
				fmt.Sprintf("Your %s complaint has been registered and is pending review", c.ComplaintType), models.PriorityMedium},
			{toAllPolice, models.NotificationComplaintRegistered, "New Complaint Registered",
				fmt.Sprintf("A new %s complaint has been registered by %s", c.ComplaintType, c.CitizenName), urgency},
		}
		p.broadcast, p.broadcastRole = realtime.EventNewComplaint, models.RolePolice

	case ComplaintAssigned:
		p.messages = []message{
			{toAssignedOfficer, models.NotificationComplaintRegistered, "Complaint Assigned",
				fmt.Sprintf("You have been assigned a new complaint (%s)", c.ComplaintType), models.PriorityHigh},
			statusMessage(toCitizen, "Complaint Status Updated",
				fmt.Sprintf("Your complaint has been assigned to %s and its status is now: %s", c.AssignedPoliceStation, c.Status)),
		}

	case ComplaintStatus:
		p.messages = []message{
			statusMessage(toCitizen, "Complaint Status Updated", fmt.Sprintf("Your complaint status has been updated to: %s", c.Status)),
		}

	case FIRFiled:
		if e.FIR == nil {
			return plan{}, fmt.Errorf("%s event without an FIR", e.Kind)
		}
		p.messages = []message{
			{toCitizen, models.NotificationFIRFiled, "FIR Filed",
				fmt.Sprintf("FIR %s has been filed for your complaint", fir.FIRNumber), models.PriorityHigh},
			{toAllCourt, models.NotificationFIRFiled, "New FIR Filed",
				fmt.Sprintf("FIR %s has been filed for %s complaint", fir.FIRNumber, c.ComplaintType), models.PriorityMedium},
		}
		p.broadcast, p.broadcastRole = realtime.EventFIRFiled, models.RoleCourt

	case FIRStatus:
		if e.FIR == nil {
			return plan{}, fmt.Errorf("%s event without an FIR", e.Kind)
		}
		p.messages = []message{
			statusMessage(toCitizen, "FIR Status Updated", fmt.Sprintf("FIR %s status has been updated to: %s", fir.FIRNumber, fir.Status)),
		}

	case FIRNoteAdded:
		if e.FIR == nil {
			return plan{}, fmt.Errorf("%s event without an FIR", e.Kind)
		}
		p.messages = []message{
			{toCitizen, models.NotificationGeneral, "Investigation Update",
				fmt.Sprintf("The investigation on FIR %s has progressed", fir.FIRNumber), models.PriorityLow},
		}

	case CaseFiled:
		if e.CaseFile == nil || e.FIR == nil {
			return plan{}, fmt.Errorf("%s event without a case file and FIR", e.Kind)
		}
		p.messages = []message{
			{toCitizen, models.NotificationCaseFiled, "Case File Generated",
				fmt.Sprintf("Case file %s has been generated for your complaint", cf.CaseNumber), models.PriorityHigh},
			{toInvestigatingOfficer, models.NotificationCaseFiled, "Case File Generated",
				fmt.Sprintf("Case file %s has been generated for FIR %s", cf.CaseNumber, fir.FIRNumber), models.PriorityMedium},
		}
		p.broadcast, p.broadcastRole = realtime.EventCaseFiled, models.RoleCourt

	case CaseStatus:
		if e.CaseFile == nil {
			return plan{}, fmt.Errorf("%s event without a case file", e.Kind)
		}
		body := fmt.Sprintf("Case %s status has been updated to: %s", cf.CaseNumber, cf.Status)
		p.messages = []message{
			statusMessage(toCitizen, "Case Status Updated", body),
			statusMessage(toInvestigatingOfficer, "Case Status Updated", body),
		}

	case HearingScheduled:
		if e.CaseFile == nil || cf.NextHearingDate == nil {
			return plan{}, fmt.Errorf("%s event without a hearing", e.Kind)
		}
		body := fmt.Sprintf("Hearing scheduled for case %s on %s", cf.CaseNumber, cf.NextHearingDate.Time().UTC().Format("2006-01-02"))
		p.messages = []message{
			{toCitizen, models.NotificationHearingScheduled, "Hearing Scheduled", body, models.PriorityHigh},
			{toInvestigatingOfficer, models.NotificationHearingScheduled, "Hearing Scheduled", body, models.PriorityHigh},
		}

	case JudgmentRecorded:
		if e.CaseFile == nil || cf.Judgment == nil {
			return plan{}, fmt.Errorf("%s event without a judgment", e.Kind)
		}
		body := fmt.Sprintf("Judgment delivered for case %s. Verdict: %s", cf.CaseNumber, cf.Judgment.Verdict)
		p.messages = []message{
			{toCitizen, models.NotificationStatusUpdate, "Judgment Delivered", body, models.PriorityHigh},
			{toInvestigatingOfficer, models.NotificationStatusUpdate, "Judgment Delivered", body, models.PriorityHigh},
		}

	default:
		return plan{}, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return p, nil
}
