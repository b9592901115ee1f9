package app

import (
	"fmt"
	"net/http"
)

// DomainError is a caller-visible failure with a stable code and HTTP
// status. Anything else escaping the service layer is reported as a generic
// server error by mapError.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// validationError rejects a submission at intake. The message names the
// offending field and is safe to echo back to the submitter.
func validationError(message string) *DomainError {
	return &DomainError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// persistenceError covers storage failures. The real cause goes to the log;
// the message carries no backend detail.
func persistenceError(message string) *DomainError {
	return &DomainError{
		Status:  http.StatusInternalServerError,
		Code:    "PERSISTENCE_ERROR",
		Message: message,
	}
}
