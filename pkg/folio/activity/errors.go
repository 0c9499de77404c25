package activity

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrUnknownScreen is returned when no constructor is registered for a screen.
	ErrUnknownScreen = errors.New("screen not registered")

	// ErrAlreadyStarted is returned by Begin when the render task is already running.
	ErrAlreadyStarted = errors.New("activity manager already started")

	// ErrNoCurrentActivity indicates a request that needs a current activity
	// arrived while the manager was idle.
	ErrNoCurrentActivity = errors.New("no current activity")

	// ErrNotRunning is returned when waiting on a render task that is not
	// started or has been stopped.
	ErrNotRunning = errors.New("render task not running")
)

// InfrastructureError represents a runtime-level failure that the device
// cannot recover from at the screen level (render task missing, no display,
// a screen that cannot be constructed). These are fatal: the caller should
// abort to a diagnostic state.
type InfrastructureError struct {
	Op  string // Operation that failed (e.g., "begin", "construct")
	Err error  // Underlying error
}

func (e *InfrastructureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("folio: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("folio: %s", e.Op)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// NewInfrastructureError creates a new infrastructure error.
func NewInfrastructureError(op string, err error) *InfrastructureError {
	return &InfrastructureError{Op: op, Err: err}
}

// IsInfrastructureError checks if an error is an infrastructure error.
func IsInfrastructureError(err error) bool {
	var infraErr *InfrastructureError
	return errors.As(err, &infraErr)
}
