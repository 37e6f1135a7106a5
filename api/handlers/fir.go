package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/workflow"
)

// FIR exported for testing purposes
type FIR struct {
	Engine *workflow.Engine
}

type noteRequest struct {
	Note string `json:"note"`
}

// CreateFIRHandler files an FIR against a complaint
func (f FIR) CreateFIRHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	complaintID, ok := objectID(w, r, "complaint_id")
	if !ok {
		return
	}
	var in workflow.FIRInput
	if !decode(w, r, &in) {
		return
	}
	fir, err := f.Engine.FileFIR(r.Context(), actor, complaintID, in)
	if err != nil {
		engineError("failed to file FIR", w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fir)
}

// FIRsHandler lists the FIRs visible to the caller
func (f FIR) FIRsHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	firs, err := f.Engine.ListFIRs(ctx, actor)
	if err != nil {
		engineError("failed to get FIRs", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, firs)
}

// FIRByIDHandler returns an FIR by ID
func (f FIR) FIRByIDHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r, "fir_id")
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	fir, err := f.Engine.GetFIR(ctx, actor, id)
	if err != nil {
		engineError("failed to get FIR by ID", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fir)
}

// FIRByNumberHandler returns an FIR by its FIR number
func (f FIR) FIRByNumberHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	fir, err := f.Engine.FindFIRByNumber(ctx, actor, mux.Vars(r)["fir_number"])
	if err != nil {
		engineError("failed to get FIR by number", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fir)
}

// UpdateFIRStatusHandler moves an FIR forward
func (f FIR) UpdateFIRStatusHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r, "fir_id")
	if !ok {
		return
	}
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	fir, err := f.Engine.UpdateFIRStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		engineError("failed to update FIR status", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fir)
}

// AddInvestigationNoteHandler appends a note to an FIR's investigation log
func (f FIR) AddInvestigationNoteHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r, "fir_id")
	if !ok {
		return
	}
	var req noteRequest
	if !decode(w, r, &req) {
		return
	}
	fir, err := f.Engine.AddInvestigationNote(r.Context(), actor, id, req.Note)
	if err != nil {
		engineError("failed to add investigation note", w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fir)
}
