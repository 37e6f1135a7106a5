// Package docs Case Tracker API.
//
// Documentation of the Case Tracker API. Every /api/v1 route takes a bearer
// token issued by the identity provider.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - bearer
//
//    SecurityDefinitions:
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/workflow"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route POST /api/v1/complaints complaints createComplaint
// Files a complaint for the calling citizen.
// responses:
//   201: complaintResponse
//   400: validationErrorResponse
//   403: errorResponse

// swagger:parameters createComplaint
type createComplaintParams struct {
	// in:body
	Body workflow.ComplaintInput
}

// swagger:route GET /api/v1/complaints/{complaint_id} complaints complaintByID
// Gets a single complaint by ID, reconciled with its FIR and case file.
// responses:
//   200: complaintResponse
//   403: errorResponse
//   404: errorResponse

// A complaint
// swagger:response complaintResponse
type complaintResponseWrapper struct {
	// in:body
	Body models.Complaint
}

// swagger:route POST /api/v1/complaints/{complaint_id}/fir firs createFIR
// Files the FIR for a complaint and mints its FIR number.
// responses:
//   201: firResponse
//   400: validationErrorResponse
//   409: errorResponse

// swagger:parameters createFIR
type createFIRParams struct {
	// in:body
	Body workflow.FIRInput
}

// An FIR
// swagger:response firResponse
type firResponseWrapper struct {
	// in:body
	Body models.FIR
}

// swagger:route POST /api/v1/firs/{fir_id}/casefile casefiles createCaseFile
// Files the court case for an FIR and mints its case number.
// responses:
//   201: caseFileResponse
//   400: validationErrorResponse
//   409: errorResponse

// swagger:parameters createCaseFile
type createCaseFileParams struct {
	// in:body
	Body workflow.CaseFileInput
}

// A case file
// swagger:response caseFileResponse
type caseFileResponseWrapper struct {
	// in:body
	Body models.CaseFile
}

// swagger:route POST /api/v1/casefiles/{case_id}/judgment casefiles recordJudgment
// Records the judgment on a case file. A case is judged once.
// responses:
//   200: caseFileResponse
//   409: errorResponse

// swagger:parameters recordJudgment
type recordJudgmentParams struct {
	// in:body
	Body workflow.JudgmentInput
}

// swagger:route GET /api/v1/notifications notifications listNotifications
// Gets one page of the caller's notifications, newest first.
// responses:
//   200: notificationPageResponse

// A page of notifications
// swagger:response notificationPageResponse
type notificationPageResponseWrapper struct {
	// in:body
	Body models.NotificationPage
}

// Every invalid field of the request
// swagger:response validationErrorResponse
type validationErrorResponseWrapper struct {
	// in:body
	Body models.ValidationErrorResponse
}

// A failure message
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body struct {
		Response string `json:"response"`
	}
}
