package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/logging"
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/workflow"
)

// engineError maps a workflow error onto its HTTP status
func engineError(message string, w http.ResponseWriter, r *http.Request, err error) {
	var verr *workflow.ValidationError
	switch {
	case errors.As(err, &verr):
		logging.FromContext(r.Context()).Infow(message, "fields", verr.Fields)
		writeJSON(w, http.StatusBadRequest, models.ValidationErrorResponse{Response: message, Fields: verr.Fields})
	case errors.Is(err, workflow.ErrUnauthorized):
		config.ErrorStatus(message, http.StatusForbidden, w, err)
	case errors.Is(err, workflow.ErrNotFound):
		config.ErrorStatus(message, http.StatusNotFound, w, err)
	case errors.Is(err, workflow.ErrConflict):
		config.ErrorStatus(message, http.StatusConflict, w, err)
	case errors.Is(err, context.DeadlineExceeded):
		config.ErrorStatus(message, http.StatusServiceUnavailable, w, err)
	default:
		config.ErrorStatus(message, http.StatusInternalServerError, w, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

// actorOf returns the caller placed on the context by the auth middleware
func actorOf(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := api.ActorFrom(r.Context())
	if !ok {
		config.ErrorStatus("no authenticated user on request", http.StatusUnauthorized, w, nil)
	}
	return actor, ok
}

// objectID parses the hex id held in the route variable key
func objectID(w http.ResponseWriter, r *http.Request, key string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[key])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return primitive.NilObjectID, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return false
	}
	return true
}

// queryInt reads a non-negative integer query parameter, falling back to def
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		zap.S().Warnw(fmt.Sprintf("invalid %s, using default", key), "value", raw, "default", def)
		return def
	}
	return v
}

// statusRequest is the body of every status transition
type statusRequest struct {
	Status string `json:"status"`
}
