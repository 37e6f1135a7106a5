package memdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/models"
)

func TestFIRNumberUnique(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := &models.FIR{ID: primitive.NewObjectID(), Details: models.FIRDetails{FIRNumber: "FIR-2025-0001"}}
	second := &models.FIR{ID: primitive.NewObjectID(), Details: models.FIRDetails{FIRNumber: "FIR-2025-0001"}}

	require.NoError(t, s.FIRs().InsertOne(ctx, first))
	err := s.FIRs().InsertOne(ctx, second)
	assert.True(t, databases.IsDuplicateKey(err, "firNumber"))
}

func TestCaseFilePerFIRUnique(t *testing.T) {
	s := New()
	ctx := context.Background()
	firID := primitive.NewObjectID()

	require.NoError(t, s.CaseFiles().InsertOne(ctx, &models.CaseFile{ID: primitive.NewObjectID(), Details: models.CaseFileDetails{CaseNumber: "CASE-2025-0001", FIRID: firID}}))
	err := s.CaseFiles().InsertOne(ctx, &models.CaseFile{ID: primitive.NewObjectID(), Details: models.CaseFileDetails{CaseNumber: "CASE-2025-0002", FIRID: firID}})
	assert.True(t, databases.IsDuplicateKey(err, "firID"))
}

func TestGuardedUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()
	id := primitive.NewObjectID()
	require.NoError(t, s.Complaints().InsertOne(ctx, &models.Complaint{ID: id, Details: models.ComplaintDetails{Status: models.ComplaintPending}}))

	status := models.ComplaintUnderReview
	updated, err := s.Complaints().Update(ctx, id, []string{models.ComplaintPending}, models.ComplaintChange{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintUnderReview, updated.Details.Status)
	assert.Equal(t, int32(1), updated.Version)

	_, err = s.Complaints().Update(ctx, id, []string{models.ComplaintPending}, models.ComplaintChange{Status: &status})
	assert.ErrorIs(t, err, databases.ErrPreconditionFailed)
}

func TestFailOn(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	s.FailOn("counters.Next", boom)

	_, err := s.Counters().Next(context.Background(), "FIR-2025")
	assert.ErrorIs(t, err, boom)

	s.FailOn("counters.Next", nil)
	seq, err := s.Counters().Next(context.Background(), "FIR-2025")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestNotificationPaging(t *testing.T) {
	s := New()
	ctx := context.Background()
	recipient := primitive.NewObjectID()

	var batch []models.Notification
	for i := 0; i < 5; i++ {
		batch = append(batch, models.Notification{ID: primitive.NewObjectID(), RecipientID: recipient, CreatedAt: primitive.DateTime(i)})
	}
	require.NoError(t, s.Notifications().InsertMany(ctx, batch))

	page, err := s.Notifications().FindByRecipient(ctx, recipient, false, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, primitive.DateTime(2), page[0].CreatedAt)

	n, err := s.Notifications().MarkAllRead(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	unread, _ := s.Notifications().CountByRecipient(ctx, recipient, true)
	assert.Zero(t, unread)
}

func TestSchedulerLockExclusive(t *testing.T) {
	s := New()
	ctx := context.Background()
	locks := s.SchedulerLocks()

	ok, err := locks.TryAcquireLock(ctx, "reconcile", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = locks.TryAcquireLock(ctx, "reconcile", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, locks.ReleaseLock(ctx, "reconcile", "b"))
	ok, _ = locks.TryAcquireLock(ctx, "reconcile", "b", time.Minute)
	assert.False(t, ok, "only the owner releases")

	require.NoError(t, locks.ReleaseLock(ctx, "reconcile", "a"))
	ok, _ = locks.TryAcquireLock(ctx, "reconcile", "b", time.Minute)
	assert.True(t, ok)
}

func TestSchedulerLockExpires(t *testing.T) {
	s := New()
	ctx := context.Background()
	locks := s.SchedulerLocks()

	ok, _ := locks.TryAcquireLock(ctx, "reconcile", "a", -time.Second)
	assert.True(t, ok)
	ok, _ = locks.TryAcquireLock(ctx, "reconcile", "b", time.Minute)
	assert.True(t, ok)
}
