package wizard

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrAlreadyAtLastStep  = errors.New("wizard is already at the last step")
	ErrAlreadyAtFirstStep = errors.New("wizard is already at the first step")
	ErrFinalizeInProgress = errors.New("finalize already in progress")
	ErrSessionClosed      = errors.New("wizard session is closed")
	ErrNotAtReviewStep    = errors.New("finalize is only available on the review step")
)

// ValidationError blocks a Next or Finalize transition.
type ValidationError struct {
	Step   StepID
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s: %s", e.Step, strings.Join(e.Fields, "; "))
}

func (e *ValidationError) ErrCode() string { return "VALIDATION_ERROR" }

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

type Operation string

const (
	OpSaveDraft Operation = "save_draft"
	OpFinalize  Operation = "finalize"
)

// PersistenceError wraps any failure of the agent service.
type PersistenceError struct {
	Op    Operation
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

func (e *PersistenceError) ErrCode() string { return "PERSISTENCE_ERROR" }

func (e *PersistenceError) StatusCode() int { return http.StatusBadGateway }

// InvalidStepIndexError is the panic value for a step index outside the
// profile. It signals a caller bug, not a validation failure.
type InvalidStepIndexError struct {
	Index int
	Steps int
}

func (e InvalidStepIndexError) Error() string {
	return fmt.Sprintf("invalid step index %d (profile has %d steps)", e.Index, e.Steps)
}
