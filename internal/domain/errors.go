package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface lets the handler layer translate domain
// failures without enumerating every concrete type.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a menu item (or a referenced parent) was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// CycleError indicates a move that would make a node its own ancestor
	CycleError struct {
		Message string
	}

	// HasChildrenError indicates a delete was rejected because the node
	// still has direct children
	HasChildrenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string    { return e.Message }
func (e *ValidationError) Error() string  { return e.Message }
func (e *CycleError) Error() string       { return e.Message }
func (e *HasChildrenError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int    { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int  { return http.StatusBadRequest }
func (e *CycleError) StatusCode() int       { return http.StatusConflict }
func (e *HasChildrenError) StatusCode() int { return http.StatusConflict }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrCycle       = errors.New("cycle detected")
	ErrHasChildren = errors.New("has children")

	// ErrConcurrentModification is reserved for backends that validate
	// moves optimistically and exhaust their retries. The shipped backends
	// serialize structural writes, so they never produce it.
	ErrConcurrentModification = errors.New("concurrent modification")
)

// Is allows errors.Is() matching against the sentinels
func (e *NotFoundError) Is(target error) bool    { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool  { return target == ErrValidation }
func (e *CycleError) Is(target error) bool       { return target == ErrCycle }
func (e *HasChildrenError) Is(target error) bool { return target == ErrHasChildren }
