package models

// Role is the actor role supplied by the identity provider
type Role string

// Roles known to the workflow
const (
	RoleCitizen Role = "citizen"
	RolePolice  Role = "police"
	RoleCourt   Role = "court"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RolePolice, RoleCourt:
		return true
	}
	return false
}

// Complaint statuses, in lifecycle order
const (
	ComplaintPending     = "pending"
	ComplaintUnderReview = "under_review"
	ComplaintFIRFiled    = "fir_filed"
	ComplaintCaseFiled   = "case_filed"
	ComplaintResolved    = "resolved"
)

// FIR statuses, in lifecycle order
const (
	FIRFiled              = "filed"
	FIRUnderInvestigation = "under_investigation"
	FIRChargesheetFiled   = "chargesheet_filed"
	FIRCaseFiled          = "case_filed"
	FIRClosed             = "closed"
)

// CaseFile statuses, in lifecycle order
const (
	CaseFiled    = "filed"
	CaseHearing  = "hearing"
	CaseJudgment = "judgment"
	CaseAppealed = "appealed"
	CaseClosed   = "closed"
)

var complaintOrder = []string{ComplaintPending, ComplaintUnderReview, ComplaintFIRFiled, ComplaintCaseFiled, ComplaintResolved}
var firOrder = []string{FIRFiled, FIRUnderInvestigation, FIRChargesheetFiled, FIRCaseFiled, FIRClosed}
var caseOrder = []string{CaseFiled, CaseHearing, CaseJudgment, CaseAppealed, CaseClosed}

func rank(order []string, status string) int {
	for i, s := range order {
		if s == status {
			return i
		}
	}
	return -1
}

// ComplaintRank returns the position of status in the complaint lifecycle, or -1
func ComplaintRank(status string) int { return rank(complaintOrder, status) }

// FIRRank returns the position of status in the FIR lifecycle, or -1
func FIRRank(status string) int { return rank(firOrder, status) }

// CaseRank returns the position of status in the case file lifecycle, or -1
func CaseRank(status string) int { return rank(caseOrder, status) }

// ComplaintStatusesBefore lists every complaint status strictly earlier than status
func ComplaintStatusesBefore(status string) []string {
	r := ComplaintRank(status)
	if r <= 0 {
		return nil
	}
	return append([]string(nil), complaintOrder[:r]...)
}

// FIRStatusesBefore lists every FIR status strictly earlier than status
func FIRStatusesBefore(status string) []string {
	r := FIRRank(status)
	if r <= 0 {
		return nil
	}
	return append([]string(nil), firOrder[:r]...)
}

// Complaint types
var ComplaintTypes = []string{"criminal", "civil", "other", "theft", "assault", "fraud", "harassment", "property_damage"}

// Priorities shared by complaints and notifications
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Priorities lists the accepted priority values
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// CaseTypes lists the accepted case file types
var CaseTypes = []string{"criminal", "civil", "family", "commercial", "constitutional"}

// Verdicts lists the accepted judgment verdicts
var Verdicts = []string{"guilty", "not_guilty", "acquitted", "convicted"}

// CustodyStatuses lists the accepted accused custody states on a case file
var CustodyStatuses = []string{"absconding", "on_bail", "in_custody", "acquitted", "convicted"}

// HearingStatuses lists the accepted hearing states
var HearingStatuses = []string{"scheduled", "completed", "adjourned", "cancelled"}

// OneOf reports whether v is in set
func OneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
