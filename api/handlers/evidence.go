package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/evidence"
	"github.com/linesmerrill/case-tracker-api/models"
)

// multipart overhead allowed on top of the file itself
const formOverhead = 1 << 20

// Evidence exported for testing purposes
type Evidence struct {
	Store evidence.Store
}

// UploadEvidenceHandler stores one attachment from the "file" form field and
// returns the reference to put on a complaint
func (e Evidence) UploadEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	if actor.Role() != models.RoleCitizen && actor.Role() != models.RolePolice {
		config.ErrorStatus("only citizens and police may upload evidence", http.StatusForbidden, w, nil)
		return
	}
	if e.Store == nil {
		config.ErrorStatus("evidence store is not configured", http.StatusServiceUnavailable, w, nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, evidence.MaxSize+formOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			config.ErrorStatus("failed to read upload", http.StatusRequestEntityTooLarge, w, evidence.ErrTooLarge)
			return
		}
		config.ErrorStatus("failed to read upload", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	if err := evidence.Validate(header.Filename, header.Size); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, evidence.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		config.ErrorStatus("invalid upload", status, w, err)
		return
	}

	ref, err := e.Store.Put(r.Context(), header.Filename, file)
	if err != nil {
		config.ErrorStatus("failed to store evidence", http.StatusBadGateway, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.EvidenceRef{
		Reference:    ref,
		OriginalName: header.Filename,
		UploadedAt:   primitive.NewDateTimeFromTime(time.Now()),
	})
}
