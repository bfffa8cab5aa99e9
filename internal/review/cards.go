package review

import (
	"context"
	"database/sql"
	"strings"

	"github.com/example/leitnerbot/internal/leitner"
	"github.com/example/leitnerbot/pkg/models"
)

// Submission is the content of a new card
type Submission struct {
	Question  string
	Answer    string // empty when the answer is a content reference or absent
	AnswerRef int64  // message ID holding the answer, zero if none
}

// RegisterUser records the user on first contact and reports whether they are new
func (c *Coordinator) RegisterUser(ctx context.Context, userID int64) (bool, error) {
	return c.store.EnsureUser(ctx, userID)
}

// SubmitCard creates a card in box 1, first due the day after today.
// Identical submissions create separate cards.
func (c *Coordinator) SubmitCard(ctx context.Context, userID int64, sub Submission, today models.Date) (*models.Flashcard, error) {
	question := strings.TrimSpace(sub.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	box, due := leitner.Seed(today)
	card := &models.Flashcard{
		UserID:    userID,
		Question:  question,
		Box:       box,
		DueDate:   due,
		CreatedAt: today,
	}
	if answer := strings.TrimSpace(sub.Answer); answer != "" {
		card.Answer = sql.NullString{String: answer, Valid: true}
	}
	if sub.AnswerRef != 0 {
		card.AnswerRef = sql.NullInt64{Int64: sub.AnswerRef, Valid: true}
	}

	s := c.lock(userID)
	defer s.mu.Unlock()

	if err := c.store.CreateCard(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// DeleteCard removes a card. A pending review or edit of that card is
// left in place; it resolves to ErrNotFound when it completes.
func (c *Coordinator) DeleteCard(ctx context.Context, userID, cardID int64) error {
	s := c.lock(userID)
	defer s.mu.Unlock()

	return notFound(c.store.DeleteCard(ctx, userID, cardID))
}

// Card returns one of the user's cards
func (c *Coordinator) Card(ctx context.Context, userID, cardID int64) (*models.Flashcard, error) {
	card, err := c.store.GetCard(ctx, userID, cardID)
	if err != nil {
		return nil, notFound(err)
	}
	return card, nil
}

// Cards returns every card of the user, ordered by ID
func (c *Coordinator) Cards(ctx context.Context, userID int64) ([]models.Flashcard, error) {
	return c.store.ListAll(ctx, userID)
}

// BoxStatus returns the number of cards per non-empty box, ordered by box
func (c *Coordinator) BoxStatus(ctx context.Context, userID int64) ([]models.BoxCount, error) {
	return c.store.CountByBox(ctx, userID)
}

// ToggleReminder flips the user's reminder flag and returns the new value
func (c *Coordinator) ToggleReminder(ctx context.Context, userID int64) (bool, error) {
	s := c.lock(userID)
	defer s.mu.Unlock()

	return c.store.ToggleReminder(ctx, userID)
}
