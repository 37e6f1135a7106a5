package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/api/handlers"
	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/databases/memdb"
	"github.com/linesmerrill/case-tracker-api/evidence"
	"github.com/linesmerrill/case-tracker-api/idmint"
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/notify"
	"github.com/linesmerrill/case-tracker-api/realtime"
	"github.com/linesmerrill/case-tracker-api/workflow"
)

const secret = "handler-test-secret"

type fixture struct {
	store  *memdb.Store
	app    *handlers.App
	router *mux.Router

	citizen  models.User
	neighbor models.User
	officer  models.User
	judge    models.User
}

func user(store *memdb.Store, d models.UserDetails) models.User {
	d.IsActive = true
	u := models.User{ID: primitive.NewObjectID(), Details: d}
	store.AddUser(u)
	return u
}

func newFixture(t *testing.T, store evidence.Store) *fixture {
	t.Helper()
	f := &fixture{store: memdb.New()}
	f.citizen = user(f.store, models.UserDetails{Name: "Asha", Email: "asha@example.test", Role: models.RoleCitizen})
	f.neighbor = user(f.store, models.UserDetails{Name: "Kiran", Role: models.RoleCitizen})
	f.officer = user(f.store, models.UserDetails{Name: "Ravi", Role: models.RolePolice, PoliceStation: "Central", BadgeNumber: "B-12"})
	f.judge = user(f.store, models.UserDetails{Name: "Justice Rao", Role: models.RoleCourt, CourtName: "High Court", Designation: "Judge"})

	hub := realtime.NewHub()
	stores := workflow.Stores{
		Complaints:    f.store.Complaints(),
		FIRs:          f.store.FIRs(),
		CaseFiles:     f.store.CaseFiles(),
		Notifications: f.store.Notifications(),
		Users:         f.store.Users(),
	}
	engine := workflow.New(stores, idmint.New(f.store.Counters()),
		workflow.WithNotifier(notify.New(stores.Notifications, stores.Users, hub)),
	)

	f.app = &handlers.App{
		Config:   config.Config{JWTSecret: secret},
		Engine:   engine,
		Users:    stores.Users,
		Hub:      hub,
		Evidence: store,
	}
	f.router = f.app.New()
	return f
}

func token(t *testing.T, u models.User) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, api.Claims{
		Role: string(u.Details.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

// do sends body as JSON on behalf of u; a zero u sends no token
func (f *fixture) do(t *testing.T, u models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if !u.ID.IsZero() {
		req.Header.Set("Authorization", "Bearer "+token(t, u))
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func complaintBody() map[string]interface{} {
	return map[string]interface{}{
		"complaintType": "theft",
		"description":   "Bicycle stolen from the market parking",
		"location":      "MG Road",
		"incidentDate":  "2025-03-08T09:00:00Z",
	}
}

func firBody() map[string]interface{} {
	return map[string]interface{}{
		"firDetails":     "Complainant reports theft of a bicycle near the market",
		"sections":       []string{"IPC 379"},
		"accusedDetails": []map[string]string{{"name": "Unknown"}},
	}
}

func caseBody() map[string]interface{} {
	return map[string]interface{}{
		"caseType":         "criminal",
		"caseDetails":      "State versus unknown accused for bicycle theft",
		"judgeName":        "Justice Rao",
		"publicProsecutor": "A. Menon",
		"charges":          []map[string]string{{"section": "IPC 379", "description": "Theft"}},
	}
}

func (f *fixture) fileComplaint(t *testing.T) models.Complaint {
	t.Helper()
	rr := f.do(t, f.citizen, "POST", "/api/v1/complaints", complaintBody())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var c models.Complaint
	decodeBody(t, rr, &c)
	return c
}

func (f *fixture) fileFIR(t *testing.T) (models.Complaint, models.FIR) {
	t.Helper()
	c := f.fileComplaint(t)
	rr := f.do(t, f.officer, "POST", "/api/v1/complaints/"+c.ID.Hex()+"/fir", firBody())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var fir models.FIR
	decodeBody(t, rr, &fir)
	return c, fir
}

func (f *fixture) fileCase(t *testing.T) (models.Complaint, models.FIR, models.CaseFile) {
	t.Helper()
	c, fir := f.fileFIR(t)
	rr := f.do(t, f.judge, "POST", "/api/v1/firs/"+fir.ID.Hex()+"/casefile", caseBody())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var cf models.CaseFile
	decodeBody(t, rr, &cf)
	return c, fir, cf
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t, nil)
	rr := f.do(t, models.User{}, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"alive": true}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRoutesRequireToken(t *testing.T) {
	f := newFixture(t, nil)
	for _, path := range []string{"/api/v1/complaints", "/api/v1/firs", "/api/v1/casefiles", "/api/v1/notifications"} {
		rr := f.do(t, models.User{}, "GET", path, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
		assert.JSONEq(t, `{"error": "unauthorized"}`, rr.Body.String(), path)
	}
}

func TestBadObjectID(t *testing.T) {
	f := newFixture(t, nil)
	rr := f.do(t, f.citizen, "GET", "/api/v1/complaints/1234", nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"response": "failed to get objectID from Hex, the provided hex string is not a valid ObjectID"}`, rr.Body.String())
}
