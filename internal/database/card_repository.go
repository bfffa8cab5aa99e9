package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/leitnerbot/pkg/models"
)

const cardColumns = "id, user_id, question, answer, answer_ref, box, due_date, created_on"

// CreateCard inserts a new flashcard and sets its ID.
// The owning user is registered if needed. Identical cards are allowed.
func (s *Store) CreateCard(ctx context.Context, card *models.Flashcard) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := ensureUser(ctx, tx, s.isPostgres(), card.UserID); err != nil {
		return err
	}

	query := `
		INSERT INTO flashcards (user_id, question, answer, answer_ref, box, due_date, created_on)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	args := []interface{}{
		card.UserID,
		card.Question,
		card.Answer,
		card.AnswerRef,
		card.Box,
		card.DueDate,
		card.CreatedAt,
	}

	if s.isPostgres() {
		// lib/pq doesn't support LastInsertId
		if err := tx.QueryRowxContext(ctx, tx.Rebind(query+" RETURNING id"), args...).Scan(&card.ID); err != nil {
			return fmt.Errorf("failed to create flashcard: %w", err)
		}
	} else {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to create flashcard: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %w", err)
		}
		card.ID = id
	}

	return tx.Commit()
}

// GetCard returns a single card owned by the user
func (s *Store) GetCard(ctx context.Context, userID, cardID int64) (*models.Flashcard, error) {
	var card models.Flashcard
	query := s.db.Rebind("SELECT " + cardColumns + " FROM flashcards WHERE id = ? AND user_id = ?")
	err := s.db.GetContext(ctx, &card, query, cardID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("flashcard %d: %w", cardID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcard %d: %w", cardID, err)
	}
	return &card, nil
}

// ListDue returns the user's cards due on or before asOf, ordered by ascending ID
func (s *Store) ListDue(ctx context.Context, userID int64, asOf models.Date) ([]models.Flashcard, error) {
	query := s.db.Rebind(`
		SELECT ` + cardColumns + `
		FROM flashcards
		WHERE user_id = ? AND due_date <= ?
		ORDER BY id ASC
	`)
	var cards []models.Flashcard
	if err := s.db.SelectContext(ctx, &cards, query, userID, asOf); err != nil {
		return nil, fmt.Errorf("failed to get due flashcards: %w", err)
	}
	return cards, nil
}

// ListAll returns every card of the user, ordered by ascending ID
func (s *Store) ListAll(ctx context.Context, userID int64) ([]models.Flashcard, error) {
	query := s.db.Rebind("SELECT " + cardColumns + " FROM flashcards WHERE user_id = ? ORDER BY id ASC")
	var cards []models.Flashcard
	if err := s.db.SelectContext(ctx, &cards, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get flashcards: %w", err)
	}
	return cards, nil
}

// CountByBox returns the number of the user's cards in each non-empty box
func (s *Store) CountByBox(ctx context.Context, userID int64) ([]models.BoxCount, error) {
	query := s.db.Rebind(`
		SELECT box, COUNT(*) AS count
		FROM flashcards
		WHERE user_id = ?
		GROUP BY box
		ORDER BY box ASC
	`)
	var counts []models.BoxCount
	if err := s.db.SelectContext(ctx, &counts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to count flashcards by box: %w", err)
	}
	return counts, nil
}

// ApplyOutcome stores the box and due date computed for a review
func (s *Store) ApplyOutcome(ctx context.Context, userID, cardID int64, box int, due models.Date) error {
	query := "UPDATE flashcards SET box = ?, due_date = ? WHERE id = ? AND user_id = ?"
	return s.execOne(ctx, query, cardID, box, due, cardID, userID)
}

// UpdateQuestion replaces the question text of a card
func (s *Store) UpdateQuestion(ctx context.Context, userID, cardID int64, question string) error {
	query := "UPDATE flashcards SET question = ? WHERE id = ? AND user_id = ?"
	return s.execOne(ctx, query, cardID, question, cardID, userID)
}

// DeleteCard removes a card
func (s *Store) DeleteCard(ctx context.Context, userID, cardID int64) error {
	query := "DELETE FROM flashcards WHERE id = ? AND user_id = ?"
	return s.execOne(ctx, query, cardID, cardID, userID)
}

// execOne runs a single-card statement and maps zero affected rows to ErrNotFound
func (s *Store) execOne(ctx context.Context, query string, cardID int64, args ...interface{}) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to update flashcard %d: %w", cardID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("flashcard %d: %w", cardID, ErrNotFound)
	}
	return nil
}
