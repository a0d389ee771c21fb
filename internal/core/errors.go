package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation ErrorCategory = "validation" // Malformed or cyclic plan
	ErrCatTimeout    ErrorCategory = "timeout"    // Worker exceeded its deadline
	ErrCatWorker     ErrorCategory = "worker"     // Worker reported failure
	ErrCatCapability ErrorCategory = "capability" // No worker for a capability
	ErrCatRunaway    ErrorCategory = "runaway"    // Runaway guard abort
	ErrCatDeadlock   ErrorCategory = "deadlock"   // No pending task can become ready
	ErrCatState      ErrorCategory = "state"      // Invalid state transition
	ErrCatNotFound   ErrorCategory = "not_found"  // Resource not found
	ErrCatInternal   ErrorCategory = "internal"   // Unexpected internal error
)

// DomainError represents a structured error from the orchestration engine.
type DomainError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Retryable bool
	Cause     error
	Details   map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ErrValidation creates a plan validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatValidation,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// ErrTimeout creates a worker deadline error.
func ErrTimeout(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatTimeout,
		Code:      "TIMEOUT",
		Message:   message,
		Retryable: true,
	}
}

// ErrWorkerFailed creates a worker application error.
func ErrWorkerFailed(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatWorker,
		Code:      "WORKER_FAILED",
		Message:   message,
		Retryable: true,
	}
}

// ErrCapabilityNotFound indicates no worker is registered for a capability.
func ErrCapabilityNotFound(capability Capability) *DomainError {
	return &DomainError{
		Category:  ErrCatCapability,
		Code:      CodeCapabilityNotFound,
		Message:   fmt.Sprintf("no worker registered for capability %q", capability),
		Retryable: false,
	}
}

// ErrRunaway creates a runaway guard abort error.
func ErrRunaway(reason string) *DomainError {
	return &DomainError{
		Category:  ErrCatRunaway,
		Code:      "RUNAWAY_DETECTED",
		Message:   reason,
		Retryable: false,
	}
}

// ErrState creates an invalid state transition error.
func ErrState(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatState,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) *DomainError {
	return &DomainError{
		Category:  ErrCatNotFound,
		Code:      "NOT_FOUND",
		Message:   fmt.Sprintf("%s not found: %s", resource, id),
		Retryable: false,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Retryable
	}
	return false
}

// GetCategory extracts the error category.
func GetCategory(err error) ErrorCategory {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Category
	}
	return ErrCatInternal
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return GetCategory(err) == cat
}

// Predefined error codes
const (
	// Validation error codes
	CodeDuplicateID          = "DUPLICATE_ID"
	CodeUnknownDependency    = "UNKNOWN_DEPENDENCY"
	CodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	CodeDescriptionTooLong   = "DESCRIPTION_TOO_LONG"
	CodeCycleDetected        = "CYCLE_DETECTED"
	CodeNoTaskList           = "NO_TASK_LIST"
	CodeParseFailed          = "PARSE_FAILED"

	// State error codes
	CodeInvalidState  = "INVALID_STATE"
	CodeIterationCap  = "ITERATION_CAP_REACHED"
	CodeNoActiveRun   = "NO_ACTIVE_RUN"
	CodeRunInProgress = "RUN_IN_PROGRESS"

	// Execution error codes
	CodeCapabilityNotFound = "CAPABILITY_NOT_FOUND"
)

// MaxDescriptionLength bounds task descriptions at ingestion time.
const MaxDescriptionLength = 200
