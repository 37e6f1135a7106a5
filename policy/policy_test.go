package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/models"
)

var (
	citizen = models.Actor{ID: primitive.NewObjectID(), Profile: models.CitizenProfile{}}
	other   = models.Actor{ID: primitive.NewObjectID(), Profile: models.CitizenProfile{}}
	officer = models.Actor{ID: primitive.NewObjectID(), Profile: models.PoliceProfile{Station: "Central", Badge: "B-1"}}
	second  = models.Actor{ID: primitive.NewObjectID(), Profile: models.PoliceProfile{Station: "North", Badge: "B-2"}}
	judge   = models.Actor{ID: primitive.NewObjectID(), Profile: models.CourtProfile{CourtName: "High Court", Designation: "Judge"}}
)

func TestCanPerformMutations(t *testing.T) {
	assigned := Resource{Kind: models.RelatedComplaint, CitizenID: citizen.ID, AssignedOfficer: &officer.ID}
	unassigned := Resource{Kind: models.RelatedComplaint, CitizenID: citizen.ID}
	onFIR := Resource{Kind: models.RelatedFIR, CitizenID: citizen.ID, InvestigatingOfficer: &officer.ID}

	tests := []struct {
		name   string
		actor  models.Actor
		action Action
		res    Resource
		want   bool
	}{
		{"citizen files complaint", citizen, FileComplaint, Resource{}, true},
		{"police cannot file complaint", officer, FileComplaint, Resource{}, false},
		{"any officer assigns", second, AssignComplaint, assigned, true},
		{"court cannot assign", judge, AssignComplaint, unassigned, false},
		{"assigned officer files fir", officer, FileFIR, assigned, true},
		{"other officer cannot file fir on assigned complaint", second, FileFIR, assigned, false},
		{"any officer files fir on unassigned complaint", second, FileFIR, unassigned, true},
		{"citizen cannot file fir", citizen, FileFIR, unassigned, false},
		{"investigating officer updates fir", officer, UpdateFIRStatus, onFIR, true},
		{"other officer cannot update fir", second, UpdateFIRStatus, onFIR, false},
		{"investigating officer adds note", officer, AddInvestigationNote, onFIR, true},
		{"court cannot add note", judge, AddInvestigationNote, onFIR, false},
		{"court files case", judge, FileCase, onFIR, true},
		{"police files case", second, FileCase, onFIR, true},
		{"citizen cannot file case", citizen, FileCase, onFIR, false},
		{"court records judgment", judge, RecordJudgment, onFIR, true},
		{"police cannot record judgment", officer, RecordJudgment, onFIR, false},
		{"police cannot schedule hearing", officer, ScheduleHearing, onFIR, false},
		{"court updates case status", judge, UpdateCaseStatus, onFIR, true},
		{"unknown action denied", judge, Action("delete_everything"), onFIR, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.actor, tt.action, tt.res))
		})
	}
}

func TestCanRead(t *testing.T) {
	complaint := models.Complaint{ID: primitive.NewObjectID(), Details: models.ComplaintDetails{CitizenID: citizen.ID}}
	fir := models.FIR{ID: primitive.NewObjectID(), Details: models.FIRDetails{InvestigatingOfficerID: officer.ID, ComplaintID: complaint.ID}}

	open := ComplaintResource(complaint, nil)
	firRes := FIRResource(fir, complaint)
	caseRes := CaseResource(fir, complaint)

	assert.True(t, CanPerform(citizen, Read, open))
	assert.False(t, CanPerform(other, Read, open))
	assert.True(t, CanPerform(second, Read, open), "unassigned complaints are visible to all police")
	assert.True(t, CanPerform(judge, Read, caseRes))

	assert.True(t, CanPerform(citizen, Read, caseRes), "citizen reaches case file through own complaint")
	assert.False(t, CanPerform(other, Read, caseRes))
	assert.True(t, CanPerform(officer, Read, firRes))
	assert.False(t, CanPerform(second, Read, firRes))
	assert.False(t, CanPerform(second, Read, caseRes))

	withFIR := ComplaintResource(complaint, &fir)
	assert.True(t, CanPerform(officer, Read, withFIR))
	assert.False(t, CanPerform(second, Read, withFIR))
}

func TestActorWithoutProfileDenied(t *testing.T) {
	assert.False(t, CanPerform(models.Actor{ID: primitive.NewObjectID()}, Read, Resource{}))
	assert.False(t, CanPerform(models.Actor{ID: primitive.NewObjectID()}, FileComplaint, Resource{}))
}
