package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
)

// Sentinel errors for the failure classes the tools and retrieval layer
// recover from. None of these is ever fatal: BackendUnavailable falls
// through to a fallback path, InvalidArgument is rendered as a descriptive
// tool result, and NoResults is an explicit "nothing matched" message.
var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNoResults          = errors.New("no results found")
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// BackendUnavailable wraps err so it matches ErrBackendUnavailable.
func BackendUnavailable(err error, message string) *AppError {
	return New(fmt.Errorf("%w: %w", ErrBackendUnavailable, err), http.StatusBadGateway, message)
}

// InvalidArgument wraps err so it matches ErrInvalidArgument.
func InvalidArgument(err error, message string) *AppError {
	return New(fmt.Errorf("%w: %w", ErrInvalidArgument, err), http.StatusBadRequest, message)
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
