package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession indicates an operation that requires an authenticated
	// identity was attempted without one.
	ErrNoSession = errors.New("no active session")

	// ErrForbidden indicates a private room cannot be activated without
	// pre-existing membership. There is no request-to-join flow.
	ErrForbidden = errors.New("room is private")

	// ErrStreamClosed indicates a send on a stream that is not open.
	ErrStreamClosed = errors.New("stream is not open")

	// ErrStreamTerminated indicates the connection for the active room was
	// lost. Messages already received stay visible; sending is disabled
	// until the room is re-selected.
	ErrStreamTerminated = errors.New("stream terminated")
)

// ValidationError is a local, pre-network input failure. It is surfaced
// immediately and never sent to the backend.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ConnectionError wraps a failed backend call: unreachable host or a
// non-2xx response. It is transient; existing local state is kept.
type ConnectionError struct {
	Op     string
	Status int
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: server returned %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// JoinError indicates a join request for a public room was rejected.
// Activation is aborted and the previously active room is left untouched.
type JoinError struct {
	RoomID int64
	Err    error
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("join room %d: %v", e.RoomID, e.Err)
}

func (e *JoinError) Unwrap() error {
	return e.Err
}
