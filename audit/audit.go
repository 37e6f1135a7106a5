// Package audit attests new complaints on an external ledger. The local
// record stays authoritative; ledger failures are reported to the caller
// to log and are never retried here.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/models"
)

// isoMillis matches the millisecond UTC timestamps other ledger clients hash
const isoMillis = "2006-01-02T15:04:05.000Z"

// Ledger registers a complaint fingerprint under the complaint's id
type Ledger interface {
	RegisterCase(ctx context.Context, caseID, fingerprint string) error
}

// Fingerprint hashes the complaint content that must never change after filing
func Fingerprint(description string, incidentDate time.Time, citizenID primitive.ObjectID) string {
	sum := sha256.Sum256([]byte(description + incidentDate.UTC().Format(isoMillis) + citizenID.Hex()))
	return hex.EncodeToString(sum[:])
}

// Recorder sends fingerprints to a Ledger under a fixed time budget
type Recorder struct {
	ledger  Ledger
	timeout time.Duration
}

// NewRecorder returns a Recorder; a nil ledger turns Record into a no-op
func NewRecorder(ledger Ledger, timeout time.Duration) *Recorder {
	return &Recorder{ledger: ledger, timeout: timeout}
}

// Record registers complaint on the ledger and returns the fingerprint it sent
func (r *Recorder) Record(ctx context.Context, complaint models.Complaint) (string, error) {
	d := complaint.Details
	fingerprint := Fingerprint(d.Description, d.IncidentDate.Time(), d.CitizenID)
	if r == nil || r.ledger == nil {
		return fingerprint, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.ledger.RegisterCase(ctx, complaint.ID.Hex(), fingerprint); err != nil {
		return fingerprint, fmt.Errorf("failed to register complaint %s on ledger: %w", complaint.ID.Hex(), err)
	}
	return fingerprint, nil
}
