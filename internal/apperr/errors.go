// Package apperr defines the error taxonomy shared by services and controllers.
// Services wrap these sentinels with context via fmt.Errorf("...: %w", err);
// controllers translate them to HTTP statuses with Status.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidTransition: the operation is not legal from the attempt's
	// current state (e.g. blocking a completed attempt, double start).
	ErrInvalidTransition = errors.New("operation not allowed from current attempt state")

	// ErrWindowClosed: the operation requires the test's scheduling window
	// to be open and it is not.
	ErrWindowClosed = errors.New("test window is closed")

	// ErrAttemptNotActive: a mutation that requires an in-progress attempt
	// was invoked on one that is not (blocked or completed included).
	ErrAttemptNotActive = errors.New("attempt is not in progress")

	// ErrUnauthorized: the caller does not own the test.
	ErrUnauthorized = errors.New("actor is not permitted to manage this test")

	// ErrNotFound: unknown attempt, test or student.
	ErrNotFound = errors.New("record not found")
)

// Status maps a service error to the HTTP status the API responds with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrWindowClosed),
		errors.Is(err, ErrAttemptNotActive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
