package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/databases/memdb"
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/realtime"
)

type published struct {
	room  string
	name  string
	event realtime.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (r *recordingPublisher) Publish(room, eventName string, payload realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{room, eventName, payload})
}

func (r *recordingPublisher) rooms() []string {
	var out []string
	for _, e := range r.events {
		out = append(out, e.room)
	}
	return out
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(recipient models.User, n models.Notification) error {
	return m.Called(recipient, n).Error(0)
}

type fixture struct {
	store     *memdb.Store
	publisher *recordingPublisher
	fanout    *Fanout
	citizen   models.User
	officers  []models.User
	judge     models.User
	complaint models.Complaint
	fir       models.FIR
	caseFile  models.CaseFile
}

func user(role models.Role, name, email string) models.User {
	return models.User{ID: primitive.NewObjectID(), Details: models.UserDetails{Name: name, Email: email, Role: role, IsActive: true}}
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{store: memdb.New(), publisher: &recordingPublisher{}}
	f.citizen = user(models.RoleCitizen, "Asha", "asha@example.test")
	f.officers = []models.User{user(models.RolePolice, "Ravi", "ravi@example.test"), user(models.RolePolice, "Meena", "")}
	f.judge = user(models.RoleCourt, "Justice Rao", "rao@example.test")
	inactive := user(models.RolePolice, "Retired", "old@example.test")
	inactive.Details.IsActive = false

	for _, u := range append([]models.User{f.citizen, f.judge, inactive}, f.officers...) {
		f.store.AddUser(u)
	}

	officer := f.officers[0].ID
	f.complaint = models.Complaint{ID: primitive.NewObjectID(), Details: models.ComplaintDetails{
		CitizenID: f.citizen.ID, CitizenName: "Asha", ComplaintType: "theft", Status: models.ComplaintPending,
		Priority: models.PriorityUrgent, AssignedOfficer: &officer, AssignedPoliceStation: "Central",
	}}
	f.fir = models.FIR{ID: primitive.NewObjectID(), Details: models.FIRDetails{FIRNumber: "FIR-2025-0001", InvestigatingOfficerID: officer, Status: models.FIRFiled}}
	next := primitive.NewDateTimeFromTime(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	f.caseFile = models.CaseFile{ID: primitive.NewObjectID(), Details: models.CaseFileDetails{
		CaseNumber: "CASE-2025-0001", Status: models.CaseHearing, NextHearingDate: &next,
		Judgment: &models.Judgment{Verdict: "guilty"},
	}}

	f.fanout = New(f.store.Notifications(), f.store.Users(), f.publisher, opts...)
	return f
}

func recipients(ns []models.Notification) map[primitive.ObjectID]models.Notification {
	out := map[primitive.ObjectID]models.Notification{}
	for _, n := range ns {
		out[n.RecipientID] = n
	}
	return out
}

func TestComplaintFiledNotifiesCitizenAndActivePolice(t *testing.T) {
	f := newFixture()

	ns, err := f.fanout.Notify(context.Background(), Event{Kind: ComplaintFiled, Complaint: f.complaint})

	require.NoError(t, err)
	require.Len(t, ns, 3)
	byRecipient := recipients(ns)
	assert.Equal(t, models.PriorityMedium, byRecipient[f.citizen.ID].Priority)
	assert.Equal(t, models.PriorityUrgent, byRecipient[f.officers[0].ID].Priority)
	assert.Equal(t, "A new theft complaint has been registered by Asha", byRecipient[f.officers[1].ID].Message)
	for _, n := range ns {
		assert.Equal(t, f.complaint.ID, n.RelatedID)
		assert.Equal(t, models.RelatedComplaint, n.RelatedType)
	}

	assert.Contains(t, f.publisher.rooms(), "police")
	assert.Contains(t, f.publisher.rooms(), realtime.UserRoom(f.citizen.ID))

	stored, _ := f.store.Notifications().CountByRecipient(context.Background(), f.citizen.ID, true)
	assert.Equal(t, int64(1), stored)
}

func TestComplaintFiledNonUrgentIsHighForPolice(t *testing.T) {
	f := newFixture()
	f.complaint.Details.Priority = models.PriorityLow

	ns, err := f.fanout.Notify(context.Background(), Event{Kind: ComplaintFiled, Complaint: f.complaint})

	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, recipients(ns)[f.officers[0].ID].Priority)
}

func TestRelatedIDFollowsMutatedEntity(t *testing.T) {
	tests := []struct {
		kind        Kind
		withFIR     bool
		withCase    bool
		relatedType string
		count       int
	}{
		{ComplaintAssigned, false, false, models.RelatedComplaint, 2},
		{ComplaintStatus, false, false, models.RelatedComplaint, 1},
		{FIRFiled, true, false, models.RelatedFIR, 2},
		{FIRStatus, true, false, models.RelatedFIR, 1},
		{FIRNoteAdded, true, false, models.RelatedFIR, 1},
		{CaseFiled, true, true, models.RelatedCase, 2},
		{CaseStatus, true, true, models.RelatedCase, 2},
		{HearingScheduled, true, true, models.RelatedCase, 2},
		{JudgmentRecorded, true, true, models.RelatedCase, 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			f := newFixture()
			e := Event{Kind: tt.kind, Complaint: f.complaint}
			want := f.complaint.ID
			if tt.withFIR {
				e.FIR = &f.fir
				want = f.fir.ID
			}
			if tt.withCase {
				e.CaseFile = &f.caseFile
				want = f.caseFile.ID
			}

			ns, err := f.fanout.Notify(context.Background(), e)

			require.NoError(t, err)
			assert.Len(t, ns, tt.count)
			_, citizenNotified := recipients(ns)[f.citizen.ID]
			assert.True(t, citizenNotified)
			for _, n := range ns {
				assert.Equal(t, want, n.RelatedID)
				assert.Equal(t, tt.relatedType, n.RelatedType)
			}
		})
	}
}

func TestHearingMessageCarriesDate(t *testing.T) {
	f := newFixture()

	ns, err := f.fanout.Notify(context.Background(), Event{Kind: HearingScheduled, Complaint: f.complaint, FIR: &f.fir, CaseFile: &f.caseFile})

	require.NoError(t, err)
	assert.Equal(t, "Hearing scheduled for case CASE-2025-0001 on 2025-06-02", ns[0].Message)
}

func TestFIRFiledReachesCourt(t *testing.T) {
	f := newFixture()

	ns, err := f.fanout.Notify(context.Background(), Event{Kind: FIRFiled, Complaint: f.complaint, FIR: &f.fir})

	require.NoError(t, err)
	_, judgeNotified := recipients(ns)[f.judge.ID]
	assert.True(t, judgeNotified)
	assert.Contains(t, f.publisher.rooms(), "court")
}

func TestMissingSubjectIsRejected(t *testing.T) {
	f := newFixture()

	_, err := f.fanout.Notify(context.Background(), Event{Kind: CaseFiled, Complaint: f.complaint})

	assert.Error(t, err)
	assert.Empty(t, f.publisher.events)
}

func TestStoreFailureSkipsPublish(t *testing.T) {
	f := newFixture()
	f.store.FailOn("notifications.InsertMany", errors.New("store down"))

	ns, err := f.fanout.Notify(context.Background(), Event{Kind: ComplaintStatus, Complaint: f.complaint})

	assert.ErrorContains(t, err, "store down")
	assert.Nil(t, ns)
	assert.Empty(t, f.publisher.events)
}

func TestRoleLookupFailureStillNotifiesCitizen(t *testing.T) {
	f := newFixture()
	f.store.FailOn("users.FindByRole", errors.New("timeout"))

	ns, err := f.fanout.Notify(context.Background(), Event{Kind: ComplaintFiled, Complaint: f.complaint})

	assert.ErrorContains(t, err, "timeout")
	require.Len(t, ns, 1)
	assert.Equal(t, f.citizen.ID, ns[0].RecipientID)
}

func TestEmailsHighPriorityWithAddress(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
	f := newFixture(WithMailer(mailer))

	_, err := f.fanout.Notify(context.Background(), Event{Kind: ComplaintFiled, Complaint: f.complaint})

	require.NoError(t, err)
	// citizen notice is medium; Meena has no email
	mailer.AssertNumberOfCalls(t, "Send", 1)
	sentTo := mailer.Calls[0].Arguments.Get(0).(models.User)
	assert.Equal(t, f.officers[0].ID, sentTo.ID)
}

func TestEmailFailureIsReported(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("quota"))
	f := newFixture(WithMailer(mailer))

	ns, err := f.fanout.Notify(context.Background(), Event{Kind: FIRFiled, Complaint: f.complaint, FIR: &f.fir})

	assert.ErrorContains(t, err, "quota")
	assert.Len(t, ns, 2)
}
