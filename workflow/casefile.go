package workflow

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/idmint"
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/notify"
	"github.com/linesmerrill/case-tracker-api/policy"
)

// FileCaseFile opens a court case from an FIR. A court actor's own court is
// recorded; officers filing on the court's behalf get the default court.
// An FIR carries at most one case file; filing again yields ErrConflict.
func (e *Engine) FileCaseFile(ctx context.Context, actor models.Actor, firID primitive.ObjectID, in CaseFileInput) (*models.CaseFile, error) {
	fir, complaint, err := e.chain(ctx, firID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.FileCase, policy.CaseResource(*fir, *complaint)) {
		return nil, unauthorized(policy.FileCase, "FIR", firID)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := e.caseOf(ctx, firID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		e.repair(ctx, complaint, fir, existing)
		return nil, fmt.Errorf("FIR %s already has case %s: %w", fir.Details.FIRNumber, existing.Details.CaseNumber, ErrConflict)
	}
	from := models.FIRStatusesBefore(models.FIRCaseFiled)
	if !models.OneOf(fir.Details.Status, from) {
		return nil, fmt.Errorf("FIR %s is %s: %w", fir.Details.FIRNumber, fir.Details.Status, ErrConflict)
	}

	courtName := e.courtName
	if p, ok := actor.Profile.(models.CourtProfile); ok {
		courtName = p.CourtName
	}
	now := e.now()
	caseFile := &models.CaseFile{
		ID: primitive.NewObjectID(),
		Details: models.CaseFileDetails{
			FIRID:            firID,
			ComplaintID:      complaint.ID,
			CourtName:        courtName,
			JudgeName:        in.JudgeName,
			PublicProsecutor: in.PublicProsecutor,
			FiledBy:          actor.ID,
			CaseType:         in.CaseType,
			CaseDetails:      in.CaseDetails,
			Charges:          in.Charges,
			Accused:          in.Accused,
			Documents:        in.Documents,
			Status:           models.CaseFiled,
			FiledDate:        now,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}

	ctx = commit(ctx)
	number, err := e.minter.Insert(ctx, idmint.KindCase, e.Now().Year(), func(number string) error {
		caseFile.Details.CaseNumber = number
		return e.caseFiles.InsertOne(ctx, caseFile)
	})
	if databases.IsDuplicateKey(err, "firID") {
		return nil, fmt.Errorf("FIR %s already has a case file: %w", fir.Details.FIRNumber, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to file case for FIR %s: %w", fir.Details.FIRNumber, err)
	}
	zap.S().Infow("case filed", "caseNumber", number, "firNumber", fir.Details.FIRNumber, "by", actor.ID.Hex())

	if updated, err := e.firs.UpdateStatus(ctx, firID, from, models.FIRCaseFiled); err != nil {
		zap.S().Warnw("case filed but FIR not updated, leaving it to read-repair", "firID", firID.Hex(), "error", err)
	} else {
		fir = updated
	}
	status := models.ComplaintCaseFiled
	if updated, err := e.complaints.Update(ctx, complaint.ID, models.ComplaintStatusesBefore(status),
		models.ComplaintChange{Status: &status, CaseNumber: &number}); err != nil {
		zap.S().Warnw("case filed but complaint not updated, leaving it to read-repair", "complaintID", complaint.ID.Hex(), "error", err)
	} else {
		complaint = updated
	}

	e.emit(ctx, notify.Event{Kind: notify.CaseFiled, Complaint: *complaint, FIR: fir, CaseFile: caseFile})
	return caseFile, nil
}

// caseTransitions lists, per target, the case statuses the court may move
// from. judgment is only reached through RecordJudgment.
var caseTransitions = map[string][]string{
	models.CaseHearing:  {models.CaseFiled},
	models.CaseAppealed: {models.CaseJudgment},
	models.CaseClosed:   {models.CaseJudgment, models.CaseAppealed},
}

// caseChain loads a case file with its FIR and complaint
func (e *Engine) caseChain(ctx context.Context, caseID primitive.ObjectID) (*models.CaseFile, *models.FIR, *models.Complaint, error) {
	caseFile, err := e.loadCaseFile(ctx, caseID)
	if err != nil {
		return nil, nil, nil, err
	}
	fir, complaint, err := e.chain(ctx, caseFile.Details.FIRID)
	if err != nil {
		return nil, nil, nil, err
	}
	return caseFile, fir, complaint, nil
}

// UpdateCaseStatus moves a case forward. Closing a case resolves its complaint.
func (e *Engine) UpdateCaseStatus(ctx context.Context, actor models.Actor, caseID primitive.ObjectID, status string) (*models.CaseFile, error) {
	caseFile, fir, complaint, err := e.caseChain(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.UpdateCaseStatus, policy.CaseResource(*fir, *complaint)) {
		return nil, unauthorized(policy.UpdateCaseStatus, "case file", caseID)
	}
	from, ok := caseTransitions[status]
	if !ok {
		var errs fieldErrors
		errs.oneOf("status", status, []string{models.CaseHearing, models.CaseAppealed, models.CaseClosed})
		return nil, errs.err()
	}
	if !models.OneOf(caseFile.Details.Status, from) {
		return nil, fmt.Errorf("case %s cannot move from %s to %s: %w", caseFile.Details.CaseNumber, caseFile.Details.Status, status, ErrConflict)
	}

	ctx = commit(ctx)
	updated, err := e.caseFiles.UpdateStatus(ctx, caseID, from, status)
	if err != nil {
		return nil, storeError("case file", caseID, err)
	}
	zap.S().Infow("case status updated", "caseNumber", updated.Details.CaseNumber, "status", status, "by", actor.ID.Hex())

	if status == models.CaseClosed {
		complaint = e.resolveComplaint(ctx, complaint)
	}
	e.emit(ctx, notify.Event{Kind: notify.CaseStatus, Complaint: *complaint, FIR: fir, CaseFile: updated})
	return updated, nil
}

// ScheduleHearing adds a hearing to the case log and moves a freshly filed
// case into hearing
func (e *Engine) ScheduleHearing(ctx context.Context, actor models.Actor, caseID primitive.ObjectID, in HearingInput) (*models.CaseFile, error) {
	caseFile, fir, complaint, err := e.caseChain(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.ScheduleHearing, policy.CaseResource(*fir, *complaint)) {
		return nil, unauthorized(policy.ScheduleHearing, "case file", caseID)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	from := []string{models.CaseFiled, models.CaseHearing}
	if !models.OneOf(caseFile.Details.Status, from) {
		return nil, fmt.Errorf("case %s is %s: %w", caseFile.Details.CaseNumber, caseFile.Details.Status, ErrConflict)
	}

	ctx = commit(ctx)
	updated, err := e.caseFiles.AddHearing(ctx, caseID, from, models.Hearing{
		Date:    primitive.NewDateTimeFromTime(in.Date),
		Purpose: in.Purpose,
		Status:  "scheduled",
		Notes:   in.Notes,
	}, models.CaseHearing)
	if err != nil {
		return nil, storeError("case file", caseID, err)
	}
	zap.S().Infow("hearing scheduled", "caseNumber", updated.Details.CaseNumber, "date", in.Date, "by", actor.ID.Hex())

	e.emit(ctx, notify.Event{Kind: notify.HearingScheduled, Complaint: *complaint, FIR: fir, CaseFile: updated})
	return updated, nil
}

// RecordJudgment records the verdict on a case in filed or hearing and
// resolves its complaint. A judgment is recorded once.
func (e *Engine) RecordJudgment(ctx context.Context, actor models.Actor, caseID primitive.ObjectID, in JudgmentInput) (*models.CaseFile, error) {
	caseFile, fir, complaint, err := e.caseChain(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.RecordJudgment, policy.CaseResource(*fir, *complaint)) {
		return nil, unauthorized(policy.RecordJudgment, "case file", caseID)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	from := []string{models.CaseFiled, models.CaseHearing}
	if !models.OneOf(caseFile.Details.Status, from) || caseFile.Details.Judgment != nil {
		return nil, fmt.Errorf("case %s is %s: %w", caseFile.Details.CaseNumber, caseFile.Details.Status, ErrConflict)
	}

	date := in.JudgmentDate
	if date.IsZero() {
		date = e.Now()
	}
	ctx = commit(ctx)
	updated, err := e.caseFiles.SetJudgment(ctx, caseID, from, models.Judgment{
		Verdict:      in.Verdict,
		Sentence:     in.Sentence,
		Fine:         in.Fine,
		JudgmentDate: primitive.NewDateTimeFromTime(date),
		JudgmentText: in.JudgmentText,
	})
	if err != nil {
		return nil, storeError("case file", caseID, err)
	}
	zap.S().Infow("judgment recorded", "caseNumber", updated.Details.CaseNumber, "verdict", in.Verdict, "by", actor.ID.Hex())

	complaint = e.resolveComplaint(ctx, complaint)
	e.emit(ctx, notify.Event{Kind: notify.JudgmentRecorded, Complaint: *complaint, FIR: fir, CaseFile: updated})
	return updated, nil
}
