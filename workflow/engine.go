// Package workflow moves a complaint through FIR and case file stages.
//
// Every operation loads the records it touches, checks the actor against
// the access policy, validates input and only then writes. Writes across
// the three records are sequential single-document updates; a lagging
// complaint or FIR is repaired on the next read or by Reconcile.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/idmint"
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/notify"
)

// Notifier delivers transition events
type Notifier interface {
	Notify(ctx context.Context, e notify.Event) ([]models.Notification, error)
}

// Auditor attests a newly filed complaint
type Auditor interface {
	Record(ctx context.Context, complaint models.Complaint) (string, error)
}

// Stores groups the collections the engine reads and writes
type Stores struct {
	Complaints    databases.ComplaintDatabase
	FIRs          databases.FIRDatabase
	CaseFiles     databases.CaseFileDatabase
	Notifications databases.NotificationDatabase
	Users         databases.UserDatabase
}

// Engine runs workflow operations on behalf of authenticated actors
type Engine struct {
	complaints    databases.ComplaintDatabase
	firs          databases.FIRDatabase
	caseFiles     databases.CaseFileDatabase
	notifications databases.NotificationDatabase
	users         databases.UserDatabase

	minter    *idmint.Minter
	notifier  Notifier
	auditor   Auditor
	courtName string

	// Now is the engine clock
	Now func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithNotifier sends transition events to n
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithAuditor attests new complaints through a
func WithAuditor(a Auditor) Option {
	return func(e *Engine) { e.auditor = a }
}

// WithCourtName sets the court recorded on case files filed by police
func WithCourtName(name string) Option {
	return func(e *Engine) { e.courtName = name }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.Now = now }
}

// New returns an Engine over stores minting numbers with minter
func New(stores Stores, minter *idmint.Minter, opts ...Option) *Engine {
	e := &Engine{
		complaints:    stores.Complaints,
		firs:          stores.FIRs,
		caseFiles:     stores.CaseFiles,
		notifications: stores.Notifications,
		users:         stores.Users,
		minter:        minter,
		courtName:     config.DefaultCourtName,
		Now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) now() primitive.DateTime {
	return primitive.NewDateTimeFromTime(e.Now())
}

// commit detaches ctx from its caller. Once a write has been issued the
// operation runs to completion even if the request goes away.
func commit(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// emit hands a committed transition to the notifier, logging failures
func (e *Engine) emit(ctx context.Context, ev notify.Event) {
	if e.notifier == nil {
		return
	}
	if _, err := e.notifier.Notify(ctx, ev); err != nil {
		zap.S().Errorw("notification fan-out failed",
			"kind", ev.Kind,
			"complaintID", ev.Complaint.ID.Hex(),
			"error", fmt.Errorf("%w: %v", ErrDependency, err))
	}
}

// attest records a new complaint on the ledger, logging failures
func (e *Engine) attest(ctx context.Context, c models.Complaint) {
	if e.auditor == nil {
		return
	}
	fingerprint, err := e.auditor.Record(ctx, c)
	if err != nil {
		zap.S().Errorw("ledger registration failed",
			"complaintID", c.ID.Hex(),
			"fingerprint", fingerprint,
			"error", fmt.Errorf("%w: %v", ErrDependency, err))
		return
	}
	zap.S().Infow("complaint registered on ledger", "complaintID", c.ID.Hex(), "fingerprint", fingerprint)
}

func (e *Engine) loadComplaint(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	c, err := e.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("complaint", id, err)
	}
	return c, nil
}

func (e *Engine) loadFIR(ctx context.Context, id primitive.ObjectID) (*models.FIR, error) {
	f, err := e.firs.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("FIR", id, err)
	}
	return f, nil
}

func (e *Engine) loadCaseFile(ctx context.Context, id primitive.ObjectID) (*models.CaseFile, error) {
	cf, err := e.caseFiles.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("case file", id, err)
	}
	return cf, nil
}

// firOf returns the primary FIR filed against complaint, or nil
func (e *Engine) firOf(ctx context.Context, complaintID primitive.ObjectID) (*models.FIR, error) {
	f, err := e.firs.FindByComplaint(ctx, complaintID)
	if errors.Is(err, databases.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("FIR of complaint", complaintID, err)
	}
	return f, nil
}

// caseOf returns the case file filed from fir, or nil
func (e *Engine) caseOf(ctx context.Context, firID primitive.ObjectID) (*models.CaseFile, error) {
	cf, err := e.caseFiles.FindByFIR(ctx, firID)
	if errors.Is(err, databases.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("case file of FIR", firID, err)
	}
	return cf, nil
}

// chain loads an FIR together with its complaint
func (e *Engine) chain(ctx context.Context, firID primitive.ObjectID) (*models.FIR, *models.Complaint, error) {
	fir, err := e.loadFIR(ctx, firID)
	if err != nil {
		return nil, nil, err
	}
	complaint, err := e.loadComplaint(ctx, fir.Details.ComplaintID)
	if err != nil {
		return nil, nil, err
	}
	return fir, complaint, nil
}

// resolveComplaint moves a complaint to resolved after its FIR or case closed
func (e *Engine) resolveComplaint(ctx context.Context, c *models.Complaint) *models.Complaint {
	if c.Details.Status == models.ComplaintResolved {
		return c
	}
	status := models.ComplaintResolved
	updated, err := e.complaints.Update(ctx, c.ID, models.ComplaintStatusesBefore(status), models.ComplaintChange{Status: &status})
	if err != nil {
		zap.S().Warnw("failed to resolve complaint, leaving it to read-repair", "complaintID", c.ID.Hex(), "error", err)
		return c
	}
	return updated
}
