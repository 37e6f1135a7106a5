package handlers

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/workflow"
)

// Complaint exported for testing purposes
type Complaint struct {
	Engine *workflow.Engine
}

// assignRequest names the officer taking a complaint. An empty OfficerID
// assigns the caller.
type assignRequest struct {
	OfficerID     string `json:"officerId"`
	PoliceStation string `json:"policeStation"`
}

// CreateComplaintHandler files a complaint for the calling citizen
func (c Complaint) CreateComplaintHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	var in workflow.ComplaintInput
	if !decode(w, r, &in) {
		return
	}
	complaint, err := c.Engine.FileComplaint(r.Context(), actor, in)
	if err != nil {
		engineError("failed to file complaint", w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, complaint)
}

// ComplaintsHandler lists the complaints visible to the caller. status may
// repeat or hold a comma separated list.
func (c Complaint) ComplaintsHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	var statuses []string
	for _, s := range r.URL.Query()["status"] {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				statuses = append(statuses, part)
			}
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	complaints, err := c.Engine.ListComplaints(ctx, actor, workflow.ComplaintQuery{
		Statuses: statuses,
		Limit:    int64(queryInt(r, "limit", 0)),
	})
	if err != nil {
		engineError("failed to get complaints", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, complaints)
}

// ComplaintByIDHandler returns a complaint by ID
func (c Complaint) ComplaintByIDHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r, "complaint_id")
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	complaint, err := c.Engine.GetComplaint(ctx, actor, id)
	if err != nil {
		engineError("failed to get complaint by ID", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, complaint)
}

// AssignComplaintHandler assigns a complaint to an officer
func (c Complaint) AssignComplaintHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r, "complaint_id")
	if !ok {
		return
	}
	var req assignRequest
	if !decode(w, r, &req) {
		return
	}
	officerID := actor.ID
	if req.OfficerID != "" {
		var err error
		if officerID, err = primitive.ObjectIDFromHex(req.OfficerID); err != nil {
			config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
			return
		}
	}

	complaint, err := c.Engine.AssignComplaint(r.Context(), actor, id, officerID, req.PoliceStation)
	if err != nil {
		engineError("failed to assign complaint", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, complaint)
}

// UpdateComplaintStatusHandler moves a complaint forward
func (c Complaint) UpdateComplaintStatusHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r, "complaint_id")
	if !ok {
		return
	}
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	complaint, err := c.Engine.UpdateComplaintStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		engineError("failed to update complaint status", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, complaint)
}
