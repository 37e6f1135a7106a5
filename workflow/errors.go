package workflow

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/models"
)

// Error classes returned by the engine. Match them with errors.Is.
var (
	ErrUnauthorized = errors.New("actor may not perform this action")
	ErrNotFound     = errors.New("record not found")
	ErrConflict     = errors.New("record state conflicts with the request")
	// ErrDependency wraps side effect failures. It is only ever logged.
	ErrDependency = errors.New("side effect failed")
)

// ValidationError lists every invalid input field of a request
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// fieldErrors collects violations before they are turned into a ValidationError
type fieldErrors []models.FieldError

func (f *fieldErrors) add(field, format string, args ...interface{}) {
	*f = append(*f, models.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (f *fieldErrors) minLength(field, value string, n int) {
	if len(strings.TrimSpace(value)) < n {
		f.add(field, "must be at least %d characters", n)
	}
}

func (f *fieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f.add(field, "is required")
	}
}

func (f *fieldErrors) oneOf(field, value string, set []string) {
	if !models.OneOf(value, set) {
		f.add(field, "must be one of %s", strings.Join(set, ", "))
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

func unauthorized(action interface{}, kind string, id primitive.ObjectID) error {
	return fmt.Errorf("%s on %s %s: %w", action, kind, id.Hex(), ErrUnauthorized)
}

// storeError classifies a store failure for the caller
func storeError(what string, id primitive.ObjectID, err error) error {
	switch {
	case errors.Is(err, databases.ErrNoDocuments):
		return fmt.Errorf("%s %s: %w", what, id.Hex(), ErrNotFound)
	case errors.Is(err, databases.ErrPreconditionFailed):
		return fmt.Errorf("%s %s changed state: %w", what, id.Hex(), ErrConflict)
	}
	return fmt.Errorf("failed to access %s %s: %w", what, id.Hex(), err)
}
