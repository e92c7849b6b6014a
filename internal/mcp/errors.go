package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/attendance/internal/domain/activity"
	"github.com/rpggio/attendance/internal/domain/ledger"
	"github.com/rpggio/attendance/internal/domain/subject"
	"github.com/rpggio/attendance/internal/domain/tracker"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, tracker.ErrUnknownSubject):
		return &APIError{Code: "UNKNOWN_SUBJECT", Message: err.Error(), RecoveryHint: "Call list_subjects for valid names"}
	case errors.Is(err, tracker.ErrFutureDate):
		return &APIError{Code: "FUTURE_DATE", Message: err.Error(), RecoveryHint: "Use today or an earlier date"}
	case errors.Is(err, tracker.ErrNoSelection):
		return &APIError{Code: "NO_SELECTION", Message: err.Error(), RecoveryHint: "Pass at least one subject name"}
	case errors.Is(err, subject.ErrInvalidField):
		return &APIError{Code: "INVALID_FIELD", Message: err.Error(), RecoveryHint: "Field must be name, attended or total"}
	case errors.Is(err, ledger.ErrInvalidDate):
		return &APIError{Code: "INVALID_DATE", Message: err.Error(), RecoveryHint: "Dates are YYYY-MM-DD"}
	case errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

func invalidParams(err error) *APIError {
	return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check the tool's input schema"}
}
