package applications

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrAlreadyApplied = errors.New("an application already exists for this job")
	ErrNotDraft       = errors.New("application is no longer a draft")
	ErrNotOwner       = errors.New("application belongs to another applicant")
	ErrSubmitInFlight = errors.New("submission already in progress")
	ErrJobClosed      = errors.New("job posting is no longer accepting applications")

	ErrFileTooLarge        = errors.New("file exceeds the 5 MiB limit")
	ErrUnsupportedFileType = errors.New("only PDF, JPEG and PNG files are accepted")
	ErrStagedFileNotFound  = errors.New("staged file not found")
	ErrInvalidDocumentType = errors.New("unknown document type")
)

const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeConflict   = "CONFLICT"
	ErrorCodeReentrancy = "SUBMIT_IN_FLIGHT"
	ErrorCodeTransport  = "STORAGE_ERROR"
)

// ValidationError carries the structured list of missing required fields so
// the caller can point at each one instead of showing a single blanket error.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}
