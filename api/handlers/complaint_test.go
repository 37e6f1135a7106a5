package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/case-tracker-api/models"
)

func TestCreateComplaintHandler(t *testing.T) {
	f := newFixture(t, nil)
	c := f.fileComplaint(t)

	assert.Equal(t, f.citizen.ID, c.Details.CitizenID)
	assert.Equal(t, models.ComplaintPending, c.Details.Status)
	assert.Equal(t, "asha@example.test", c.Details.CitizenEmail)
}

func TestCreateComplaintHandlerValidation(t *testing.T) {
	f := newFixture(t, nil)
	rr := f.do(t, f.citizen, "POST", "/api/v1/complaints", map[string]string{"complaintType": "alien abduction", "description": "short"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp models.ValidationErrorResponse
	decodeBody(t, rr, &resp)
	assert.Equal(t, "failed to file complaint", resp.Response)
	var fields []string
	for _, fe := range resp.Fields {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"complaintType", "description", "location", "incidentDate"}, fields)
}

func TestCreateComplaintHandlerBadJSON(t *testing.T) {
	f := newFixture(t, nil)
	rr := f.do(t, f.citizen, "POST", "/api/v1/complaints", "not an object")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateComplaintHandlerPoliceForbidden(t *testing.T) {
	f := newFixture(t, nil)
	rr := f.do(t, f.officer, "POST", "/api/v1/complaints", complaintBody())
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestComplaintByIDHandler(t *testing.T) {
	f := newFixture(t, nil)
	c := f.fileComplaint(t)

	rr := f.do(t, f.citizen, "GET", "/api/v1/complaints/"+c.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got models.Complaint
	decodeBody(t, rr, &got)
	assert.Equal(t, c.ID, got.ID)

	rr = f.do(t, f.neighbor, "GET", "/api/v1/complaints/"+c.ID.Hex(), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = f.do(t, f.citizen, "GET", "/api/v1/complaints/"+f.officer.ID.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestComplaintsHandler(t *testing.T) {
	f := newFixture(t, nil)
	f.fileComplaint(t)
	f.fileComplaint(t)

	rr := f.do(t, f.citizen, "GET", "/api/v1/complaints", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var mine []models.Complaint
	decodeBody(t, rr, &mine)
	assert.Len(t, mine, 2)

	rr = f.do(t, f.neighbor, "GET", "/api/v1/complaints", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = f.do(t, f.citizen, "GET", "/api/v1/complaints?status=resolved,fir_filed&limit=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = f.do(t, f.citizen, "GET", "/api/v1/complaints?status=pending&limit=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var limited []models.Complaint
	decodeBody(t, rr, &limited)
	assert.Len(t, limited, 1)
}

func TestAssignComplaintHandler(t *testing.T) {
	f := newFixture(t, nil)
	c := f.fileComplaint(t)

	rr := f.do(t, f.officer, "PUT", "/api/v1/complaints/"+c.ID.Hex()+"/assign", map[string]string{})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var got models.Complaint
	decodeBody(t, rr, &got)
	require.NotNil(t, got.Details.AssignedOfficer)
	assert.Equal(t, f.officer.ID, *got.Details.AssignedOfficer)
	assert.Equal(t, "Central", got.Details.AssignedPoliceStation)
	assert.Equal(t, models.ComplaintUnderReview, got.Details.Status)

	rr = f.do(t, f.officer, "PUT", "/api/v1/complaints/"+c.ID.Hex()+"/assign", map[string]string{"officerId": "zzz"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, f.officer, "PUT", "/api/v1/complaints/"+c.ID.Hex()+"/assign", map[string]string{"officerId": f.citizen.ID.Hex()})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, f.citizen, "PUT", "/api/v1/complaints/"+c.ID.Hex()+"/assign", map[string]string{})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestUpdateComplaintStatusHandler(t *testing.T) {
	f := newFixture(t, nil)
	c := f.fileComplaint(t)
	path := "/api/v1/complaints/" + c.ID.Hex() + "/status"

	rr := f.do(t, f.officer, "PUT", path, map[string]string{"status": "fir_filed"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, f.officer, "PUT", path, map[string]string{"status": "resolved"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var got models.Complaint
	decodeBody(t, rr, &got)
	assert.Equal(t, models.ComplaintResolved, got.Details.Status)

	rr = f.do(t, f.officer, "PUT", path, map[string]string{"status": "under_review"})
	assert.Equal(t, http.StatusConflict, rr.Code)
}
