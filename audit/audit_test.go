package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/models"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) RegisterCase(ctx context.Context, caseID, fingerprint string) error {
	return m.Called(ctx, caseID, fingerprint).Error(0)
}

func complaintFixture() models.Complaint {
	return models.Complaint{
		ID: primitive.NewObjectID(),
		Details: models.ComplaintDetails{
			CitizenID:    primitive.NewObjectID(),
			Description:  "Bicycle stolen from the porch",
			IncidentDate: primitive.NewDateTimeFromTime(time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)),
		},
	}
}

func TestFingerprint(t *testing.T) {
	citizen, _ := primitive.ObjectIDFromHex("65f1c0a2b3d4e5f6a7b8c9d0")
	incident := time.Date(2025, 3, 1, 10, 30, 0, 0, time.FixedZone("IST", 19800))

	sum := sha256.Sum256([]byte("Bicycle stolen" + "2025-03-01T05:00:00.000Z" + "65f1c0a2b3d4e5f6a7b8c9d0"))

	assert.Equal(t, hex.EncodeToString(sum[:]), Fingerprint("Bicycle stolen", incident, citizen))
	assert.NotEqual(t, Fingerprint("Bicycle stolen", incident, citizen), Fingerprint("Bicycle stolen!", incident, citizen))
}

func TestRecorderRecord(t *testing.T) {
	complaint := complaintFixture()
	ledger := &mockLedger{}
	ledger.On("RegisterCase", mock.Anything, complaint.ID.Hex(), mock.AnythingOfType("string")).Return(nil)

	fingerprint, err := NewRecorder(ledger, time.Second).Record(context.Background(), complaint)

	require.NoError(t, err)
	assert.Len(t, fingerprint, 64)
	ledger.AssertCalled(t, "RegisterCase", mock.Anything, complaint.ID.Hex(), fingerprint)
}

func TestRecorderWrapsLedgerError(t *testing.T) {
	boom := errors.New("peer unavailable")
	ledger := &mockLedger{}
	ledger.On("RegisterCase", mock.Anything, mock.Anything, mock.Anything).Return(boom)

	_, err := NewRecorder(ledger, time.Second).Record(context.Background(), complaintFixture())

	assert.ErrorIs(t, err, boom)
}

func TestRecorderTimesOut(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("RegisterCase", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(context.DeadlineExceeded)

	start := time.Now()
	_, err := NewRecorder(ledger, 20*time.Millisecond).Record(context.Background(), complaintFixture())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNilLedgerIsNoop(t *testing.T) {
	fingerprint, err := NewRecorder(nil, time.Second).Record(context.Background(), complaintFixture())

	assert.NoError(t, err)
	assert.NotEmpty(t, fingerprint)
}
