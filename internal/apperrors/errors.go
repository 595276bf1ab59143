package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the statement already has ledger rows and a reimport was not requested.
var ErrConflict = errors.New("statement already processed")

// ErrConcurrentProcessing indicates that the statement is currently being extracted by another request.
var ErrConcurrentProcessing = errors.New("statement is currently being processed")

// ErrExtractionFailed indicates that the extraction collaborator produced no usable page.
var ErrExtractionFailed = errors.New("statement extraction failed")

// ErrUnsupportedStatement indicates a statement type the pipeline does not process.
var ErrUnsupportedStatement = errors.New("unsupported statement type")

// ErrInternal indicates an unexpected failure in the persistence or infrastructure layer.
var ErrInternal = errors.New("internal error")

// AppError carries a status-like code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError. A nil err is allowed.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInternal) match any AppError with a 5xx code.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= 500
}
