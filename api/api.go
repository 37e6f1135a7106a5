// Package api holds the HTTP middleware shared by every route.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/linesmerrill/case-tracker-api/models"
)

// HealthCheckHandler reports that the process is serving
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.HealthCheckResponse{Alive: true})
}
