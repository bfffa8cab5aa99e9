package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOutcome is returned when a review outcome cannot be recognized
var ErrInvalidOutcome = errors.New("models: invalid outcome")

// Outcome is the result of a single review attempt
type Outcome int

const (
	Incorrect Outcome = iota + 1 // The answer was not recalled
	Correct                      // The answer was recalled
)

var outcomeNames = [...]string{Incorrect: "incorrect", Correct: "correct"}

// String returns "correct" or "incorrect", or "Outcome(n)" for invalid values
func (o Outcome) String() string {
	if o.IsValid() {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// IsValid reports whether o is Correct or Incorrect
func (o Outcome) IsValid() bool {
	return o == Correct || o == Incorrect
}

// ParseOutcome converts user or callback input into an Outcome.
// It accepts the canonical names plus a few short forms.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "correct", "c", "yes", "y", "1":
		return Correct, nil
	case "incorrect", "i", "no", "n", "0":
		return Incorrect, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
}
