package workflow

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/models"
)

// derive computes the complaint state implied by its FIR and case file
func derive(c models.Complaint, fir *models.FIR, cf *models.CaseFile) (status, firNumber, caseNumber string) {
	status, firNumber, caseNumber = c.Details.Status, c.Details.FIRNumber, c.Details.CaseNumber
	target := status
	switch {
	case cf != nil:
		caseNumber = cf.Details.CaseNumber
		target = models.ComplaintCaseFiled
		if models.CaseRank(cf.Details.Status) >= models.CaseRank(models.CaseJudgment) {
			target = models.ComplaintResolved
		}
	case fir != nil:
		target = models.ComplaintFIRFiled
		if fir.Details.Status == models.FIRClosed {
			target = models.ComplaintResolved
		}
	}
	if fir != nil {
		firNumber = fir.Details.FIRNumber
	}
	if models.ComplaintRank(target) > models.ComplaintRank(status) {
		status = target
	}
	return status, firNumber, caseNumber
}

// repair brings a complaint and its FIR up to date with the records filed
// after them. The FIR and case file are authoritative. Failures are logged
// and the complaint is returned as loaded.
func (e *Engine) repair(ctx context.Context, c *models.Complaint, fir *models.FIR, cf *models.CaseFile) *models.Complaint {
	ctx = commit(ctx)
	if cf != nil && fir != nil && models.FIRRank(fir.Details.Status) < models.FIRRank(models.FIRCaseFiled) {
		if _, err := e.firs.UpdateStatus(ctx, fir.ID, models.FIRStatusesBefore(models.FIRCaseFiled), models.FIRCaseFiled); err != nil {
			zap.S().Warnw("read-repair of FIR failed", "firID", fir.ID.Hex(), "error", err)
		} else {
			zap.S().Infow("read-repair moved FIR to case_filed", "firID", fir.ID.Hex())
		}
	}

	status, firNumber, caseNumber := derive(*c, fir, cf)
	d := c.Details
	if status == d.Status && firNumber == d.FIRNumber && caseNumber == d.CaseNumber {
		return c
	}
	change := models.ComplaintChange{FIRNumber: &firNumber}
	if caseNumber != "" {
		change.CaseNumber = &caseNumber
	}
	from := []string{d.Status}
	if status != d.Status {
		change.Status = &status
		from = models.ComplaintStatusesBefore(status)
	}
	updated, err := e.complaints.Update(ctx, c.ID, from, change)
	if err != nil {
		zap.S().Warnw("read-repair of complaint failed", "complaintID", c.ID.Hex(), "error", err)
		return c
	}
	zap.S().Infow("read-repair updated complaint", "complaintID", c.ID.Hex(), "from", d.Status, "to", status)
	return updated
}

// repairOne loads the records filed after a complaint and repairs it
func (e *Engine) repairOne(ctx context.Context, c *models.Complaint) (*models.Complaint, *models.FIR, error) {
	fir, err := e.firOf(ctx, c.ID)
	if err != nil {
		return nil, nil, err
	}
	if fir == nil {
		return c, nil, nil
	}
	cf, err := e.caseOf(ctx, fir.ID)
	if err != nil {
		return nil, nil, err
	}
	return e.repair(ctx, c, fir, cf), fir, nil
}

// chainIndex holds the FIRs and case files of a batch of complaints
type chainIndex struct {
	firs  map[primitive.ObjectID]*models.FIR
	cases map[primitive.ObjectID]*models.CaseFile
}

func (e *Engine) indexChains(ctx context.Context, complaints []models.Complaint) (chainIndex, error) {
	idx := chainIndex{firs: map[primitive.ObjectID]*models.FIR{}, cases: map[primitive.ObjectID]*models.CaseFile{}}
	if len(complaints) == 0 {
		return idx, nil
	}
	ids := make([]primitive.ObjectID, len(complaints))
	for i := range complaints {
		ids[i] = complaints[i].ID
	}
	firs, err := e.firs.Find(ctx, databases.FIRFilter{ComplaintIDs: ids})
	if err != nil {
		return idx, fmt.Errorf("failed to list FIRs: %w", err)
	}
	// listings are newest first; keep the earliest FIR per complaint
	for i := len(firs) - 1; i >= 0; i-- {
		if _, ok := idx.firs[firs[i].Details.ComplaintID]; !ok {
			idx.firs[firs[i].Details.ComplaintID] = &firs[i]
		}
	}
	cases, err := e.caseFiles.Find(ctx, databases.CaseFileFilter{ComplaintIDs: ids})
	if err != nil {
		return idx, fmt.Errorf("failed to list case files: %w", err)
	}
	for i := range cases {
		idx.cases[cases[i].Details.FIRID] = &cases[i]
	}
	return idx, nil
}

func (idx chainIndex) of(complaintID primitive.ObjectID) (*models.FIR, *models.CaseFile) {
	fir := idx.firs[complaintID]
	if fir == nil {
		return nil, nil
	}
	return fir, idx.cases[fir.ID]
}

// Reconcile repairs every complaint that is not yet resolved and returns
// how many it changed
func (e *Engine) Reconcile(ctx context.Context) (int, error) {
	complaints, err := e.complaints.Find(ctx, databases.ComplaintFilter{Statuses: models.ComplaintStatusesBefore(models.ComplaintResolved)})
	if err != nil {
		return 0, fmt.Errorf("failed to list open complaints: %w", err)
	}
	idx, err := e.indexChains(ctx, complaints)
	if err != nil {
		return 0, err
	}
	repaired := 0
	for i := range complaints {
		fir, cf := idx.of(complaints[i].ID)
		if fir == nil {
			continue
		}
		if e.repair(ctx, &complaints[i], fir, cf) != &complaints[i] {
			repaired++
		}
	}
	zap.S().Infow("reconciliation sweep finished", "scanned", len(complaints), "repaired", repaired)
	return repaired, nil
}
