package contract

import "errors"

// Validation errors are recovered where they occur by asking again.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDateNotFound = errors.New("date not found")
)

// Precondition errors abort the analysis of the current run.
var (
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrEmptyMetricWindow   = errors.New("empty metric window")
	ErrZeroAverage         = errors.New("zero average")
)

// ErrCollaboratorUnavailable marks failures of the backing store. They are fatal.
var ErrCollaboratorUnavailable = errors.New("backing store unavailable")

// ErrAttemptsExhausted is returned by a prompt loop whose retry budget ran out.
var ErrAttemptsExhausted = errors.New("too many invalid attempts")

// IsRecoverable reports whether err can be fixed by asking the operator again.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrDateNotFound)
}

// IsPrecondition reports whether err means the data cannot support an analysis.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrInsufficientHistory) ||
		errors.Is(err, ErrEmptyMetricWindow) ||
		errors.Is(err, ErrZeroAverage)
}
