package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/workflow"
)

// CaseFile exported for testing purposes
type CaseFile struct {
	Engine *workflow.Engine
}

// CreateCaseFileHandler files the court case for an FIR
func (c CaseFile) CreateCaseFileHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	firID, ok := objectID(w, r, "fir_id")
	if !ok {
		return
	}
	var in workflow.CaseFileInput
	if !decode(w, r, &in) {
		return
	}
	cf, err := c.Engine.FileCaseFile(r.Context(), actor, firID, in)
	if err != nil {
		engineError("failed to file case", w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cf)
}

// CaseFilesHandler lists the case files visible to the caller
func (c CaseFile) CaseFilesHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	cases, err := c.Engine.ListCaseFiles(ctx, actor)
	if err != nil {
		engineError("failed to get cases", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

// CaseFileByIDHandler returns a case file by ID
func (c CaseFile) CaseFileByIDHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r, "case_id")
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	cf, err := c.Engine.GetCaseFile(ctx, actor, id)
	if err != nil {
		engineError("failed to get case by ID", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cf)
}

// CaseFileByNumberHandler returns a case file by its case number
func (c CaseFile) CaseFileByNumberHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	cf, err := c.Engine.FindCaseFileByNumber(ctx, actor, mux.Vars(r)["case_number"])
	if err != nil {
		engineError("failed to get case by number", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cf)
}

// UpdateCaseStatusHandler moves a case file forward
func (c CaseFile) UpdateCaseStatusHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r, "case_id")
	if !ok {
		return
	}
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	cf, err := c.Engine.UpdateCaseStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		engineError("failed to update case status", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cf)
}

// ScheduleHearingHandler adds a hearing to a case file
func (c CaseFile) ScheduleHearingHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r, "case_id")
	if !ok {
		return
	}
	var in workflow.HearingInput
	if !decode(w, r, &in) {
		return
	}
	cf, err := c.Engine.ScheduleHearing(r.Context(), actor, id, in)
	if err != nil {
		engineError("failed to schedule hearing", w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cf)
}

// RecordJudgmentHandler records the court's judgment on a case file
func (c CaseFile) RecordJudgmentHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r, "case_id")
	if !ok {
		return
	}
	var in workflow.JudgmentInput
	if !decode(w, r, &in) {
		return
	}
	cf, err := c.Engine.RecordJudgment(r.Context(), actor, id, in)
	if err != nil {
		engineError("failed to record judgment", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cf)
}
