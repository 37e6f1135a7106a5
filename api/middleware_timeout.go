package api

import (
	"net/http"
	"time"
)

// TimeoutMiddleware cancels the request context after timeout and answers
// 503 if the handler has not written by then. Workflow writes that already
// started still run to completion.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, `{"response": "request timed out"}`)
	}
}
