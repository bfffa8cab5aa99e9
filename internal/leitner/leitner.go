// Package leitner implements the Leitner-box scheduling rules.
//
// A card lives in a numbered box starting at 1. A correct review moves it
// one box up and doubles its interval; an incorrect review sends it back
// to box 1. All functions are pure and take the current day as input.
package leitner

import "github.com/example/leitnerbot/pkg/models"

// FirstBox is the box every new or failed card is placed in
const FirstBox = 1

// NewCardInterval is the number of days before a freshly created card is first due
const NewCardInterval = 1

// Interval returns the review interval in days for a card that has just
// been promoted into box. Box 2 waits 2 days, box 3 waits 4, and so on.
func Interval(box int) int {
	if box <= FirstBox {
		return NewCardInterval
	}
	return 1 << uint(box-1)
}

// Advance computes the box and due date after a review with the given outcome.
// Callers are expected to reject invalid outcomes before calling; anything
// other than Correct is treated as a failed recall.
func Advance(box int, outcome models.Outcome, today models.Date) (int, models.Date) {
	if box < FirstBox {
		box = FirstBox
	}
	if outcome != models.Correct {
		return FirstBox, today.AddDays(NewCardInterval)
	}
	next := box + 1
	return next, today.AddDays(Interval(next))
}

// Seed returns the initial box and due date of a card created on today.
// A new card is never due on the day it is created.
func Seed(today models.Date) (int, models.Date) {
	return FirstBox, today.AddDays(NewCardInterval)
}
