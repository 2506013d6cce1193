package domain

import (
	"errors"
)

// Code identifies a category of failure surfaced across the backend boundary.
// Callers are expected to branch on codes, never on message text.
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeValidation       Code = "VALIDATION"
	CodeConflict         Code = "CONFLICT"
	CodeCircularRef      Code = "CIRCULAR_REFERENCE"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeInternal         Code = "INTERNAL"
)

// CodedError is implemented by every error this layer returns across its
// public boundary. Recoverable distinguishes "safe to retry or ignore"
// from "indicates a logic error".
type CodedError interface {
	error
	Code() Code
	Recoverable() bool
}

// Domain error types implementing CodedError
type (
	// NotFoundError indicates a resource or path does not exist
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates malformed input (path, identifier, request)
	ValidationError struct {
		Message string
	}

	// CircularReferenceError indicates a folder moved into its own descendant
	CircularReferenceError struct {
		Message string
	}

	// PermissionError indicates the backend rejected the caller's credentials
	PermissionError struct {
		Message string
	}

	// InternalError wraps communication- or system-level failures
	InternalError struct {
		Message string
		Cause   error
	}
)

func (e *NotFoundError) Error() string          { return e.Message }
func (e *ValidationError) Error() string        { return e.Message }
func (e *CircularReferenceError) Error() string { return e.Message }
func (e *PermissionError) Error() string        { return e.Message }

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *InternalError) Unwrap() error { return e.Cause }

// Code implementations (CodedError interface)
func (e *NotFoundError) Code() Code          { return CodeNotFound }
func (e *ValidationError) Code() Code        { return CodeValidation }
func (e *CircularReferenceError) Code() Code { return CodeCircularRef }
func (e *PermissionError) Code() Code        { return CodePermissionDenied }
func (e *InternalError) Code() Code          { return CodeInternal }

// Recoverable implementations. Not-found and conflicts are normal outcomes a
// caller can react to; circular references and internal failures point at a
// logic or system problem.
func (e *NotFoundError) Recoverable() bool          { return true }
func (e *ValidationError) Recoverable() bool        { return false }
func (e *CircularReferenceError) Recoverable() bool { return false }
func (e *PermissionError) Recoverable() bool        { return false }
func (e *InternalError) Recoverable() bool          { return false }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("already exists")
	ErrValidation  = errors.New("validation failed")
	ErrCircularRef = errors.New("circular reference")
	ErrPermission  = errors.New("permission denied")
	ErrInternal    = errors.New("internal error")
)

func (e *NotFoundError) Is(target error) bool          { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool        { return target == ErrValidation }
func (e *CircularReferenceError) Is(target error) bool { return target == ErrCircularRef }
func (e *PermissionError) Is(target error) bool        { return target == ErrPermission }
func (e *InternalError) Is(target error) bool          { return target == ErrInternal }

// ConflictError represents a name/position collision with details about the
// existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (note, doc, folder, ...)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string     { return e.Message }
func (e *ConflictError) Code() Code        { return CodeConflict }
func (e *ConflictError) Recoverable() bool { return true }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// CodeOf extracts the taxonomy code from any error, defaulting to INTERNAL
// for errors that did not originate in this layer.
func CodeOf(err error) Code {
	var coded CodedError
	if errors.As(err, &coded) {
		return coded.Code()
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrCircularRef):
		return CodeCircularRef
	case errors.Is(err, ErrPermission):
		return CodePermissionDenied
	default:
		return CodeInternal
	}
}
