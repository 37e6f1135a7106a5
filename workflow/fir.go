package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/idmint"
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/notify"
	"github.com/linesmerrill/case-tracker-api/policy"
)

// openComplaintStatuses are the complaint statuses an FIR can be filed from
var openComplaintStatuses = []string{models.ComplaintPending, models.ComplaintUnderReview}

// FileFIR files an FIR against a complaint, minting its number and moving
// the complaint to fir_filed. A complaint carries at most one FIR; filing
// again yields ErrConflict.
func (e *Engine) FileFIR(ctx context.Context, actor models.Actor, complaintID primitive.ObjectID, in FIRInput) (*models.FIR, error) {
	complaint, err := e.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.FileFIR, policy.ComplaintResource(*complaint, nil)) {
		return nil, unauthorized(policy.FileFIR, "complaint", complaintID)
	}
	if in.PoliceStation == "" {
		if p, ok := actor.Profile.(models.PoliceProfile); ok {
			in.PoliceStation = p.Station
		}
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := e.firOf(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("complaint %s already has FIR %s: %w", complaintID.Hex(), existing.Details.FIRNumber, ErrConflict)
	}
	if !models.OneOf(complaint.Details.Status, openComplaintStatuses) {
		return nil, fmt.Errorf("complaint %s is %s: %w", complaintID.Hex(), complaint.Details.Status, ErrConflict)
	}

	now := e.now()
	fir := &models.FIR{
		ID: primitive.NewObjectID(),
		Details: models.FIRDetails{
			ComplaintID:            complaintID,
			PoliceStation:          in.PoliceStation,
			InvestigatingOfficerID: actor.ID,
			OfficerName:            actor.Name,
			FIRDetails:             in.FIRDetails,
			Sections:               in.Sections,
			Accused:                in.Accused,
			Witnesses:              in.Witnesses,
			Status:                 models.FIRFiled,
			FiledDate:              now,
			CreatedAt:              now,
			UpdatedAt:              now,
		},
	}

	ctx = commit(ctx)
	number, err := e.minter.Insert(ctx, idmint.KindFIR, e.Now().Year(), func(number string) error {
		fir.Details.FIRNumber = number
		return e.firs.InsertOne(ctx, fir)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to file FIR for complaint %s: %w", complaintID.Hex(), err)
	}

	status := models.ComplaintFIRFiled
	change := models.ComplaintChange{Status: &status, FIRNumber: &number}
	if complaint.Details.AssignedOfficer == nil {
		change.AssignedOfficer = &actor.ID
		change.AssignedPoliceStation = &in.PoliceStation
	}
	updated, err := e.complaints.Update(ctx, complaintID, openComplaintStatuses, change)
	switch {
	case errors.Is(err, databases.ErrPreconditionFailed):
		current, cerr := e.complaints.FindByID(ctx, complaintID)
		if cerr == nil && current.Details.FIRNumber == number {
			// a concurrent read-repair already linked this FIR
			complaint = current
			break
		}
		// another FIR won the complaint; withdraw ours
		if derr := e.firs.DeleteOne(ctx, fir.ID); derr != nil {
			zap.S().Errorw("failed to withdraw FIR that lost the race", "firID", fir.ID.Hex(), "error", derr)
		}
		return nil, fmt.Errorf("complaint %s moved on while filing FIR: %w", complaintID.Hex(), ErrConflict)
	case err != nil:
		zap.S().Warnw("FIR filed but complaint not updated, leaving it to read-repair",
			"firID", fir.ID.Hex(), "complaintID", complaintID.Hex(), "error", err)
	default:
		complaint = updated
	}
	zap.S().Infow("FIR filed", "firNumber", number, "complaintID", complaintID.Hex(), "officerID", actor.ID.Hex())

	e.emit(ctx, notify.Event{Kind: notify.FIRFiled, Complaint: *complaint, FIR: fir})
	return fir, nil
}

// firTransitions lists, per target, the FIR statuses an officer may move
// from. case_filed is only reached by filing a case.
var firTransitions = map[string][]string{
	models.FIRUnderInvestigation: {models.FIRFiled},
	models.FIRChargesheetFiled:   {models.FIRFiled, models.FIRUnderInvestigation},
	models.FIRClosed:             {models.FIRFiled, models.FIRUnderInvestigation, models.FIRChargesheetFiled},
}

// UpdateFIRStatus moves an FIR forward. Closing an FIR resolves its complaint.
func (e *Engine) UpdateFIRStatus(ctx context.Context, actor models.Actor, firID primitive.ObjectID, status string) (*models.FIR, error) {
	fir, complaint, err := e.chain(ctx, firID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.UpdateFIRStatus, policy.FIRResource(*fir, *complaint)) {
		return nil, unauthorized(policy.UpdateFIRStatus, "FIR", firID)
	}
	from, ok := firTransitions[status]
	if !ok {
		var errs fieldErrors
		errs.oneOf("status", status, []string{models.FIRUnderInvestigation, models.FIRChargesheetFiled, models.FIRClosed})
		return nil, errs.err()
	}
	if !models.OneOf(fir.Details.Status, from) {
		return nil, fmt.Errorf("FIR %s cannot move from %s to %s: %w", fir.Details.FIRNumber, fir.Details.Status, status, ErrConflict)
	}

	ctx = commit(ctx)
	updated, err := e.firs.UpdateStatus(ctx, firID, from, status)
	if err != nil {
		return nil, storeError("FIR", firID, err)
	}
	zap.S().Infow("FIR status updated", "firNumber", updated.Details.FIRNumber, "status", status, "by", actor.ID.Hex())

	if status == models.FIRClosed {
		complaint = e.resolveComplaint(ctx, complaint)
	}
	e.emit(ctx, notify.Event{Kind: notify.FIRStatus, Complaint: *complaint, FIR: updated})
	return updated, nil
}

// AddInvestigationNote appends a note to an FIR that is still open
func (e *Engine) AddInvestigationNote(ctx context.Context, actor models.Actor, firID primitive.ObjectID, note string) (*models.FIR, error) {
	fir, complaint, err := e.chain(ctx, firID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.AddInvestigationNote, policy.FIRResource(*fir, *complaint)) {
		return nil, unauthorized(policy.AddInvestigationNote, "FIR", firID)
	}
	if err := validateNote(note); err != nil {
		return nil, err
	}
	open := models.FIRStatusesBefore(models.FIRClosed)
	if !models.OneOf(fir.Details.Status, open) {
		return nil, fmt.Errorf("FIR %s is closed: %w", fir.Details.FIRNumber, ErrConflict)
	}

	ctx = commit(ctx)
	updated, err := e.firs.AppendNote(ctx, firID, open, models.InvestigationNote{
		Note:    note,
		AddedBy: actor.ID,
		AddedAt: e.now(),
	})
	if err != nil {
		return nil, storeError("FIR", firID, err)
	}

	e.emit(ctx, notify.Event{Kind: notify.FIRNoteAdded, Complaint: *complaint, FIR: updated})
	return updated, nil
}
