package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/policy"
)

// ComplaintQuery narrows ListComplaints
type ComplaintQuery struct {
	Statuses []string
	Limit    int64
}

// GetComplaint returns a complaint the actor may read, repaired against its
// FIR and case file
func (e *Engine) GetComplaint(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Complaint, error) {
	complaint, err := e.loadComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	complaint, fir, err := e.repairOne(ctx, complaint)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.Read, policy.ComplaintResource(*complaint, fir)) {
		return nil, unauthorized(policy.Read, "complaint", id)
	}
	return complaint, nil
}

func (e *Engine) readableFIR(ctx context.Context, actor models.Actor, fir *models.FIR) (*models.FIR, error) {
	complaint, err := e.loadComplaint(ctx, fir.Details.ComplaintID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.Read, policy.FIRResource(*fir, *complaint)) {
		return nil, unauthorized(policy.Read, "FIR", fir.ID)
	}
	return fir, nil
}

// GetFIR returns an FIR the actor may read
func (e *Engine) GetFIR(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.FIR, error) {
	fir, err := e.loadFIR(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.readableFIR(ctx, actor, fir)
}

// FindFIRByNumber returns the FIR carrying number
func (e *Engine) FindFIRByNumber(ctx context.Context, actor models.Actor, number string) (*models.FIR, error) {
	fir, err := e.firs.FindByNumber(ctx, number)
	if errors.Is(err, databases.ErrNoDocuments) {
		return nil, fmt.Errorf("FIR %s: %w", number, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find FIR %s: %w", number, err)
	}
	return e.readableFIR(ctx, actor, fir)
}

func (e *Engine) readableCase(ctx context.Context, actor models.Actor, cf *models.CaseFile) (*models.CaseFile, error) {
	fir, complaint, err := e.chain(ctx, cf.Details.FIRID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.Read, policy.CaseResource(*fir, *complaint)) {
		return nil, unauthorized(policy.Read, "case file", cf.ID)
	}
	return cf, nil
}

// GetCaseFile returns a case file the actor may read. Citizens may only read
// cases grown from their own complaints.
func (e *Engine) GetCaseFile(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.CaseFile, error) {
	cf, err := e.loadCaseFile(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.readableCase(ctx, actor, cf)
}

// FindCaseFileByNumber returns the case file carrying number
func (e *Engine) FindCaseFileByNumber(ctx context.Context, actor models.Actor, number string) (*models.CaseFile, error) {
	cf, err := e.caseFiles.FindByNumber(ctx, number)
	if errors.Is(err, databases.ErrNoDocuments) {
		return nil, fmt.Errorf("case %s: %w", number, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find case %s: %w", number, err)
	}
	return e.readableCase(ctx, actor, cf)
}

// ListComplaints returns the complaints visible to actor, newest first
func (e *Engine) ListComplaints(ctx context.Context, actor models.Actor, q ComplaintQuery) ([]models.Complaint, error) {
	filter := databases.ComplaintFilter{Statuses: q.Statuses, Limit: q.Limit}
	switch actor.Role() {
	case models.RoleCitizen:
		filter.CitizenID = &actor.ID
	case models.RolePolice:
		filter.OfficerID = &actor.ID
	case models.RoleCourt:
	default:
		return nil, fmt.Errorf("listing complaints as %q: %w", actor.Role(), ErrUnauthorized)
	}

	complaints, err := e.complaints.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	if actor.Role() == models.RolePolice {
		// complaints on FIRs this officer investigates, even if assigned elsewhere
		mine, err := e.complaintsInvestigatedBy(ctx, actor.ID, q.Statuses)
		if err != nil {
			return nil, err
		}
		complaints = mergeComplaints(complaints, mine)
	}

	idx, err := e.indexChains(ctx, complaints)
	if err != nil {
		return nil, err
	}
	out := make([]models.Complaint, 0, len(complaints))
	for i := range complaints {
		fir, cf := idx.of(complaints[i].ID)
		c := &complaints[i]
		if fir != nil {
			c = e.repair(ctx, c, fir, cf)
		}
		if policy.CanPerform(actor, policy.Read, policy.ComplaintResource(*c, fir)) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (e *Engine) complaintsInvestigatedBy(ctx context.Context, officerID primitive.ObjectID, statuses []string) ([]models.Complaint, error) {
	firs, err := e.firs.Find(ctx, databases.FIRFilter{OfficerID: &officerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list FIRs of officer %s: %w", officerID.Hex(), err)
	}
	var out []models.Complaint
	for _, fir := range firs {
		c, err := e.complaints.FindByID(ctx, fir.Details.ComplaintID)
		if errors.Is(err, databases.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load complaint of FIR %s: %w", fir.Details.FIRNumber, err)
		}
		if len(statuses) == 0 || models.OneOf(c.Details.Status, statuses) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func mergeComplaints(a, b []models.Complaint) []models.Complaint {
	seen := make(map[primitive.ObjectID]bool, len(a))
	for _, c := range a {
		seen[c.ID] = true
	}
	for _, c := range b {
		if !seen[c.ID] {
			seen[c.ID] = true
			a = append(a, c)
		}
	}
	return a
}

// complaintIDsOf lists the ids of a citizen's complaints
func (e *Engine) complaintIDsOf(ctx context.Context, citizenID primitive.ObjectID) ([]primitive.ObjectID, error) {
	complaints, err := e.complaints.Find(ctx, databases.ComplaintFilter{CitizenID: &citizenID})
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints of %s: %w", citizenID.Hex(), err)
	}
	ids := make([]primitive.ObjectID, len(complaints))
	for i := range complaints {
		ids[i] = complaints[i].ID
	}
	return ids, nil
}

// ListFIRs returns the FIRs visible to actor, newest first
func (e *Engine) ListFIRs(ctx context.Context, actor models.Actor) ([]models.FIR, error) {
	var filter databases.FIRFilter
	switch actor.Role() {
	case models.RoleCourt:
	case models.RolePolice:
		filter.OfficerID = &actor.ID
	case models.RoleCitizen:
		ids, err := e.complaintIDsOf(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []models.FIR{}, nil
		}
		filter.ComplaintIDs = ids
	default:
		return nil, fmt.Errorf("listing FIRs as %q: %w", actor.Role(), ErrUnauthorized)
	}
	firs, err := e.firs.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list FIRs: %w", err)
	}
	if firs == nil {
		firs = []models.FIR{}
	}
	return firs, nil
}

// ListCaseFiles returns the case files visible to actor, newest first
func (e *Engine) ListCaseFiles(ctx context.Context, actor models.Actor) ([]models.CaseFile, error) {
	var filter databases.CaseFileFilter
	switch actor.Role() {
	case models.RoleCourt:
	case models.RolePolice:
		firs, err := e.firs.Find(ctx, databases.FIRFilter{OfficerID: &actor.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to list FIRs of officer %s: %w", actor.ID.Hex(), err)
		}
		if len(firs) == 0 {
			return []models.CaseFile{}, nil
		}
		filter.FIRIDs = make([]primitive.ObjectID, len(firs))
		for i := range firs {
			filter.FIRIDs[i] = firs[i].ID
		}
	case models.RoleCitizen:
		ids, err := e.complaintIDsOf(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []models.CaseFile{}, nil
		}
		filter.ComplaintIDs = ids
	default:
		return nil, fmt.Errorf("listing case files as %q: %w", actor.Role(), ErrUnauthorized)
	}
	cases, err := e.caseFiles.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list case files: %w", err)
	}
	if cases == nil {
		cases = []models.CaseFile{}
	}
	return cases, nil
}
