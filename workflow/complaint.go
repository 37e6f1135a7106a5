package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/notify"
	"github.com/linesmerrill/case-tracker-api/policy"
)

// FileComplaint registers a new complaint for a citizen. The complaint is
// attested on the ledger and announced to every officer.
func (e *Engine) FileComplaint(ctx context.Context, actor models.Actor, in ComplaintInput) (*models.Complaint, error) {
	if !policy.CanPerform(actor, policy.FileComplaint, policy.Resource{Kind: models.RelatedComplaint, CitizenID: actor.ID}) {
		return nil, fmt.Errorf("%s by %s: %w", policy.FileComplaint, actor.Role(), ErrUnauthorized)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	now := e.now()
	complaint := &models.Complaint{
		ID: primitive.NewObjectID(),
		Details: models.ComplaintDetails{
			CitizenID:     actor.ID,
			CitizenName:   actor.Name,
			ComplaintType: in.ComplaintType,
			Description:   in.Description,
			Location:      in.Location,
			IncidentDate:  primitive.NewDateTimeFromTime(in.IncidentDate),
			Evidence:      in.Evidence,
			Status:        models.ComplaintPending,
			Priority:      priority,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
	if p, ok := actor.Profile.(models.CitizenProfile); ok {
		complaint.Details.CitizenEmail = p.Email
		complaint.Details.CitizenPhone = p.Phone
	}

	ctx = commit(ctx)
	if err := e.complaints.InsertOne(ctx, complaint); err != nil {
		return nil, fmt.Errorf("failed to insert complaint: %w", err)
	}
	zap.S().Infow("complaint filed", "complaintID", complaint.ID.Hex(), "citizenID", actor.ID.Hex())

	e.attest(ctx, *complaint)
	e.emit(ctx, notify.Event{Kind: notify.ComplaintFiled, Complaint: *complaint})
	return complaint, nil
}

// AssignComplaint assigns an open complaint to an officer and moves it under
// review. station defaults to the officer's own station.
func (e *Engine) AssignComplaint(ctx context.Context, actor models.Actor, complaintID, officerID primitive.ObjectID, station string) (*models.Complaint, error) {
	complaint, err := e.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.AssignComplaint, policy.ComplaintResource(*complaint, nil)) {
		return nil, unauthorized(policy.AssignComplaint, "complaint", complaintID)
	}

	var errs fieldErrors
	officer, err := e.users.FindByID(ctx, officerID)
	switch {
	case errors.Is(err, databases.ErrNoDocuments):
		errs.add("officerId", "no such user")
	case err != nil:
		return nil, fmt.Errorf("failed to load officer %s: %w", officerID.Hex(), err)
	case officer.Details.Role != models.RolePolice || !officer.Details.IsActive:
		errs.add("officerId", "must be an active police user")
	case station == "":
		station = officer.Details.PoliceStation
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	status := models.ComplaintUnderReview
	ctx = commit(ctx)
	updated, err := e.complaints.Update(ctx, complaintID,
		[]string{models.ComplaintPending, models.ComplaintUnderReview},
		models.ComplaintChange{Status: &status, AssignedOfficer: &officerID, AssignedPoliceStation: &station})
	if err != nil {
		return nil, storeError("complaint", complaintID, err)
	}
	zap.S().Infow("complaint assigned", "complaintID", complaintID.Hex(), "officerID", officerID.Hex(), "by", actor.ID.Hex())

	e.emit(ctx, notify.Event{Kind: notify.ComplaintAssigned, Complaint: *updated})
	return updated, nil
}

// manualComplaintStatuses are the complaint statuses an officer may set
// directly; the rest follow from FIR and case file transitions
var manualComplaintStatuses = []string{models.ComplaintUnderReview, models.ComplaintResolved}

// UpdateComplaintStatus moves a complaint forward to under_review or resolved
func (e *Engine) UpdateComplaintStatus(ctx context.Context, actor models.Actor, complaintID primitive.ObjectID, status string) (*models.Complaint, error) {
	complaint, err := e.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.UpdateComplaintStatus, policy.ComplaintResource(*complaint, nil)) {
		return nil, unauthorized(policy.UpdateComplaintStatus, "complaint", complaintID)
	}
	var errs fieldErrors
	errs.oneOf("status", status, manualComplaintStatuses)
	if err := errs.err(); err != nil {
		return nil, err
	}
	if models.ComplaintRank(status) <= models.ComplaintRank(complaint.Details.Status) {
		return nil, fmt.Errorf("complaint %s is already %s: %w", complaintID.Hex(), complaint.Details.Status, ErrConflict)
	}

	ctx = commit(ctx)
	updated, err := e.complaints.Update(ctx, complaintID, models.ComplaintStatusesBefore(status), models.ComplaintChange{Status: &status})
	if err != nil {
		return nil, storeError("complaint", complaintID, err)
	}
	zap.S().Infow("complaint status updated", "complaintID", complaintID.Hex(), "status", status, "by", actor.ID.Hex())

	e.emit(ctx, notify.Event{Kind: notify.ComplaintStatus, Complaint: *updated})
	return updated, nil
}
