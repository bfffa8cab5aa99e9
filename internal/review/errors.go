package review

import "errors"

// Request-level failures reported back to the transport adapter.
// None of them is fatal; check with errors.Is.
var (
	ErrNotFound       = errors.New("review: card no longer available")
	ErrStaleOutcome   = errors.New("review: outcome has no pending review")
	ErrInvalidState   = errors.New("review: nothing is pending")
	ErrInvalidOutcome = errors.New("review: invalid outcome")
	ErrNoTextAnswer   = errors.New("review: card has no text answer")
	ErrEmptyQuestion  = errors.New("review: question is empty")
)
