package scheduler

import (
	"fmt"
	"strings"

	"schedd/pkg/types"
)

// notFoundError signals a backend id that is not in the registry, or a
// context no registered backend can serve.
type notFoundError struct{ id string }

func (e notFoundError) Error() string { return "backend not found: " + e.id }

// ErrNotFound constructs a not-found error for the given id.
func ErrNotFound(id string) error { return notFoundError{id: id} }

// IsNotFound reports whether err indicates a missing backend id.
func IsNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}

// insufficientMemoryError signals that a load did not fit even after running
// the eviction policy.
type insufficientMemoryError struct {
	id       string
	neededMB int
}

func (e insufficientMemoryError) Error() string {
	return fmt.Sprintf("insufficient memory for backend %s: need %d MB", e.id, e.neededMB)
}

// ErrInsufficientMemory constructs an insufficient-memory error.
func ErrInsufficientMemory(id string, neededMB int) error {
	return insufficientMemoryError{id: id, neededMB: neededMB}
}

// IsInsufficientMemory reports whether err indicates the budget could not fit
// a load even after eviction.
func IsInsufficientMemory(err error) bool {
	_, ok := err.(insufficientMemoryError)
	return ok
}

// loadFailedError signals that the backend's own load failed.
type loadFailedError struct {
	id    string
	cause error
}

func (e loadFailedError) Error() string { return "load failed: " + e.id + ": " + e.cause.Error() }
func (e loadFailedError) Unwrap() error { return e.cause }

// ErrLoadFailed constructs a load-failure error wrapping the backend cause.
func ErrLoadFailed(id string, cause error) error { return loadFailedError{id: id, cause: cause} }

// IsLoadFailed reports whether err indicates a backend load failure.
func IsLoadFailed(err error) bool {
	_, ok := err.(loadFailedError)
	return ok
}

// protectedError signals an unload/evict attempt on a pinned backend.
type protectedError struct{ id string }

func (e protectedError) Error() string { return "backend is pinned: " + e.id }

// ErrProtected constructs a protected-backend error.
func ErrProtected(id string) error { return protectedError{id: id} }

// IsProtected reports whether err indicates an operation on a pinned backend.
func IsProtected(err error) bool {
	_, ok := err.(protectedError)
	return ok
}

// invokeFailedError signals that a ready backend failed to serve a request.
type invokeFailedError struct {
	id    string
	cause error
}

func (e invokeFailedError) Error() string { return "invoke failed: " + e.id + ": " + e.cause.Error() }
func (e invokeFailedError) Unwrap() error { return e.cause }

// ErrInvokeFailed constructs an invoke-failure error wrapping the backend cause.
func ErrInvokeFailed(id string, cause error) error { return invokeFailedError{id: id, cause: cause} }

// IsInvokeFailed reports whether err indicates a failed invoke.
func IsInvokeFailed(err error) bool {
	_, ok := err.(invokeFailedError)
	return ok
}

// timeoutError signals that an invoke exceeded the caller's timeout or could
// not acquire the in-flight slot in time.
type timeoutError struct{ id string }

func (e timeoutError) Error() string { return "backend timed out: " + e.id }

// ErrTimeout constructs a timeout error.
func ErrTimeout(id string) error { return timeoutError{id: id} }

// IsTimeout reports whether err indicates a serve timeout.
func IsTimeout(err error) bool {
	_, ok := err.(timeoutError)
	return ok
}

// allBackendsFailedError signals an exhausted fallback chain. It carries the
// ordered list of attempts with their individual failure reasons.
type allBackendsFailedError struct{ attempts []types.ServeAttempt }

func (e allBackendsFailedError) Error() string {
	parts := make([]string, 0, len(e.attempts))
	for _, a := range e.attempts {
		parts = append(parts, a.BackendID+": "+a.Reason)
	}
	return "all backends failed: [" + strings.Join(parts, "; ") + "]"
}

// ErrAllBackendsFailed constructs a chain-exhausted error from the ordered
// attempt list.
func ErrAllBackendsFailed(attempts []types.ServeAttempt) error {
	return allBackendsFailedError{attempts: attempts}
}

// IsAllBackendsFailed reports whether err indicates fallback exhaustion.
func IsAllBackendsFailed(err error) bool {
	_, ok := err.(allBackendsFailedError)
	return ok
}

// AttemptsOf returns the per-backend attempts attached to a chain-exhausted
// error, or nil for any other error.
func AttemptsOf(err error) []types.ServeAttempt {
	if e, ok := err.(allBackendsFailedError); ok {
		return e.attempts
	}
	return nil
}
