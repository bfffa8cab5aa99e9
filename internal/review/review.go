package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/example/leitnerbot/internal/leitner"
	"github.com/example/leitnerbot/pkg/models"
)

// Prompt is a card presented for review
type Prompt struct {
	Card      models.Flashcard
	Remaining int // due cards after this one
}

// Result describes a recorded review
type Result struct {
	Card    models.Flashcard // card state before the review
	Outcome models.Outcome
	NewBox  int
	NewDue  models.Date
}

// StartReview presents the first due card, ordered by card ID, and marks it
// as awaiting an outcome. One card is presented per call: answering it moves
// it out of the due set, so the next call presents the following card.
// A nil prompt means nothing is due and the user's state is unchanged.
func (c *Coordinator) StartReview(ctx context.Context, userID int64, today models.Date) (*Prompt, error) {
	s := c.lock(userID)
	defer s.mu.Unlock()

	due, err := c.store.ListDue(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return nil, nil
	}

	card := due[0]
	c.mark(s, AwaitingOutcome, card.ID)
	return &Prompt{Card: card, Remaining: len(due) - 1}, nil
}

// RecordOutcome applies the outcome of the pending review of cardID.
// It returns ErrStaleOutcome, without touching the card, when cardID is not
// the card the user is being reviewed on (duplicate or out-of-order
// callbacks), and ErrNotFound when the card was deleted meanwhile.
func (c *Coordinator) RecordOutcome(ctx context.Context, userID, cardID int64, outcome models.Outcome, today models.Date) (*Result, error) {
	if !outcome.IsValid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutcome, outcome)
	}

	s := c.lock(userID)
	defer s.mu.Unlock()

	if s.pending.State != AwaitingOutcome || s.pending.CardID != cardID {
		return nil, ErrStaleOutcome
	}
	card, err := c.pendingCard(ctx, s, userID, cardID)
	if err != nil {
		return nil, err
	}
	return c.apply(ctx, s, card, outcome, today)
}

// AnswerText grades a typed answer against the pending card's stored answer.
// Comparison ignores case and surrounding whitespace.
func (c *Coordinator) AnswerText(ctx context.Context, userID int64, text string, today models.Date) (*Result, error) {
	s := c.lock(userID)
	defer s.mu.Unlock()

	if s.pending.State != AwaitingOutcome {
		return nil, ErrInvalidState
	}
	card, err := c.pendingCard(ctx, s, userID, s.pending.CardID)
	if err != nil {
		return nil, err
	}
	if !card.HasTextAnswer() {
		return nil, ErrNoTextAnswer
	}

	outcome := models.Incorrect
	if strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(card.Answer.String)) {
		outcome = models.Correct
	}
	return c.apply(ctx, s, card, outcome, today)
}

// pendingCard loads the card under review. A card deleted meanwhile
// consumes the marker and yields ErrNotFound.
func (c *Coordinator) pendingCard(ctx context.Context, s *session, userID, cardID int64) (*models.Flashcard, error) {
	card, err := c.store.GetCard(ctx, userID, cardID)
	if err != nil {
		err = notFound(err)
		if errors.Is(err, ErrNotFound) {
			s.pending = Pending{}
		}
		return nil, err
	}
	return card, nil
}

// apply runs the scheduling engine and persists the result
func (c *Coordinator) apply(ctx context.Context, s *session, card *models.Flashcard, outcome models.Outcome, today models.Date) (*Result, error) {
	box, due := leitner.Advance(card.Box, outcome, today)
	if err := c.store.ApplyOutcome(ctx, card.UserID, card.ID, box, due); err != nil {
		err = notFound(err)
		if errors.Is(err, ErrNotFound) {
			s.pending = Pending{}
		}
		return nil, err
	}
	s.pending = Pending{}

	log.Printf("review: user %d card %d %s, box %d -> %d, due %s", card.UserID, card.ID, outcome, card.Box, box, due)
	return &Result{Card: *card, Outcome: outcome, NewBox: box, NewDue: due}, nil
}
