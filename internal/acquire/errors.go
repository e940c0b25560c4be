package acquire

import "errors"

// Sentinel errors for the acquire package.
var (
	// ErrInvalidSourceKey is returned when a source URI cannot be used as a key.
	ErrInvalidSourceKey = errors.New("invalid source key")

	// ErrNoAvailableDestination is returned when every candidate file name is taken.
	ErrNoAvailableDestination = errors.New("no available destination")

	// ErrMalformedPendingRecord marks a persisted record that cannot be replayed.
	ErrMalformedPendingRecord = errors.New("malformed pending record")

	// ErrQueueClosed is returned by operations after Shutdown.
	ErrQueueClosed = errors.New("acquisition queue closed")

	// ErrNotFound is returned when no task is tracked for a source key.
	ErrNotFound = errors.New("acquisition not found")

	// ErrNotResumable is returned when resuming a task that is still running.
	ErrNotResumable = errors.New("acquisition not resumable")

	// ErrNotPausable is returned when the task does not support pausing.
	ErrNotPausable = errors.New("acquisition not pausable")
)
