package app

import (
	"net/http"
	"testing"
)

func TestValidationErrorShape(t *testing.T) {
	err := validationError("name is required")
	if err.Status != http.StatusBadRequest || err.Code != "VALIDATION_ERROR" {
		t.Errorf("unexpected error %+v", err)
	}
	if got := err.Error(); got != "VALIDATION_ERROR: name is required" {
		t.Errorf("unexpected error string %q", got)
	}
}

func TestPersistenceErrorCarriesNoBackendDetail(t *testing.T) {
	err := persistenceError("Failed to save issue")
	if err.Status != http.StatusInternalServerError || err.Code != "PERSISTENCE_ERROR" {
		t.Errorf("unexpected error %+v", err)
	}
	if err.Details != nil {
		t.Errorf("unexpected details %v", err.Details)
	}
}
