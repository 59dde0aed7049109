package models

import "errors"

var (
	// ErrStaleSession is returned when an operation does not match the session state.
	ErrStaleSession = errors.New("leitner: stale session")
	// ErrSessionActive is returned by Begin when the learner already has a session.
	ErrSessionActive = errors.New("leitner: session already active")
	// ErrNothingDue is returned by Begin when no review or new word is available.
	ErrNothingDue = errors.New("leitner: nothing due")
	ErrNotFound   = errors.New("leitner: not found")
	ErrValidation = errors.New("leitner: validation failed")
	// ErrStoreUnavailable wraps any failure of the underlying store.
	ErrStoreUnavailable = errors.New("leitner: store unavailable")
	// ErrVersionConflict is returned when a concurrent write changed a record first.
	ErrVersionConflict = errors.New("leitner: version conflict")
)
