package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeConfig       = "CONFIG_ERROR"
	ErrCodeBadUpstream  = "INVALID_GENERATION"
	ErrCodeNoDiversity  = "DIVERSITY_EXHAUSTED"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewConfigError creates a CONFIG_ERROR for missing runtime configuration,
// reported before any upstream call is made.
func NewConfigError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConfig,
		Message: message,
		Status:  500,
	}
}

// NewBadUpstreamError creates an INVALID_GENERATION error: the completion
// service never returned a structurally valid reply. The raw reply text is
// carried in the message for diagnosis.
func NewBadUpstreamError(raw string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeBadUpstream,
		Message: fmt.Sprintf("invalid generation output: %s", raw),
		Status:  502,
		Err:     err,
	}
}

// NewNoDiversityError creates a DIVERSITY_EXHAUSTED error: every valid reply
// duplicated a recently generated problem.
func NewNoDiversityError() *AppError {
	return &AppError{
		Code:    ErrCodeNoDiversity,
		Message: "could not produce a sufficiently diverse problem",
		Status:  502,
	}
}
