package models

// ValidationErrorResponse is the body written when a request fails input validation
type ValidationErrorResponse struct {
	Response string       `json:"response"`
	Fields   []FieldError `json:"fields"`
}

// FieldError names one invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HealthCheckResponse is the body served by /health
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
