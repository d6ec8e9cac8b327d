package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeConflict   = "CONFLICT"

	// Workflow errors (illegal approval state transitions)
	ErrCodeIncompleteScene = "INCOMPLETE_SCENE"
	ErrCodeMissingReason   = "MISSING_REASON"
	ErrCodeForbidden       = "FORBIDDEN"

	// Session runtime errors
	ErrCodeNoEligibleScenes = "NO_ELIGIBLE_SCENES"
	ErrCodeInvalidSelection = "INVALID_SELECTION"

	// Import/export errors
	ErrCodeFormat = "FORMAT_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "MISSING_REASON")
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

// NewConflictError creates a new CONFLICT error
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  409,
	}
}

// NewIncompleteSceneError is returned when a scene is submitted for
// review while it still has validation errors or empty script text.
func NewIncompleteSceneError(sceneID string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeIncompleteScene,
		Message: fmt.Sprintf("scene %s is not ready for review: %s", sceneID, reason),
		Status:  422,
	}
}

// NewMissingReasonError is returned when a rejection carries no reason.
func NewMissingReasonError(sceneID string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingReason,
		Message: fmt.Sprintf("rejecting scene %s requires a non-empty reason", sceneID),
		Status:  422,
	}
}

// NewForbiddenError is returned when the caller's role does not permit
// the attempted operation.
func NewForbiddenError(operation string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: fmt.Sprintf("%s requires the admin role", operation),
		Status:  403,
	}
}

// NewNoEligibleScenesError is returned when a session cannot start
// because no approved, non-ending scenes exist.
func NewNoEligibleScenesError() *AppError {
	return &AppError{
		Code:    ErrCodeNoEligibleScenes,
		Message: "no approved scenes are available for a training session",
		Status:  409,
	}
}

// NewInvalidSelectionError is returned for an option pick that is out
// of range or arrives in the wrong session state.
func NewInvalidSelectionError(reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidSelection,
		Message: fmt.Sprintf("invalid selection: %s", reason),
		Status:  409,
	}
}

// NewFormatError is returned when an imported file cannot be read.
func NewFormatError(reason string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeFormat,
		Message: fmt.Sprintf("file format invalid: %s", reason),
		Status:  400,
		Err:     err,
	}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
