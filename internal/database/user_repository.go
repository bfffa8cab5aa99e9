package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/leitnerbot/pkg/models"
)

const userColumns = "id, reminder_enabled, reminder_time, created_at"

// EnsureUser registers a user on first contact.
// It reports whether a new row was created.
func (s *Store) EnsureUser(ctx context.Context, userID int64) (bool, error) {
	return ensureUser(ctx, s.db, s.isPostgres(), userID)
}

// execer is satisfied by both *sqlx.DB and *sqlx.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Rebind(query string) string
}

func ensureUser(ctx context.Context, ex execer, postgres bool, userID int64) (bool, error) {
	query := "INSERT OR IGNORE INTO users (id) VALUES (?)"
	if postgres {
		query = "INSERT INTO users (id) VALUES (?) ON CONFLICT (id) DO NOTHING"
	}

	result, err := ex.ExecContext(ctx, ex.Rebind(query), userID)
	if err != nil {
		return false, fmt.Errorf("failed to register user %d: %w", userID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// GetUser returns a user by Telegram ID
func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	query := s.db.Rebind("SELECT " + userColumns + " FROM users WHERE id = ?")
	err := s.db.GetContext(ctx, &user, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return &user, nil
}

// ToggleReminder flips the reminder flag of a user and returns the new value.
// The user is registered first if this is their first contact.
func (s *Store) ToggleReminder(ctx context.Context, userID int64) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := ensureUser(ctx, tx, s.isPostgres(), userID); err != nil {
		return false, err
	}

	update := tx.Rebind("UPDATE users SET reminder_enabled = NOT reminder_enabled WHERE id = ?")
	if _, err := tx.ExecContext(ctx, update, userID); err != nil {
		return false, fmt.Errorf("failed to toggle reminder for user %d: %w", userID, err)
	}

	var enabled bool
	if err := tx.GetContext(ctx, &enabled, tx.Rebind("SELECT reminder_enabled FROM users WHERE id = ?"), userID); err != nil {
		return false, fmt.Errorf("failed to read reminder flag for user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit reminder toggle: %w", err)
	}
	return enabled, nil
}

// SetReminderTime sets the fixed reminder time-of-day of a user.
// A nil value clears it so the user is reminded on every sweep.
func (s *Store) SetReminderTime(ctx context.Context, userID int64, hhmm *string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := ensureUser(ctx, tx, s.isPostgres(), userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("UPDATE users SET reminder_time = ? WHERE id = ?"), hhmm, userID); err != nil {
		return fmt.Errorf("failed to set reminder time for user %d: %w", userID, err)
	}
	return tx.Commit()
}

// ListReminderUsers returns every user with reminders enabled, ordered by ID
func (s *Store) ListReminderUsers(ctx context.Context) ([]models.User, error) {
	query := s.db.Rebind("SELECT " + userColumns + " FROM users WHERE reminder_enabled = ? ORDER BY id ASC")
	var users []models.User
	if err := s.db.SelectContext(ctx, &users, query, true); err != nil {
		return nil, fmt.Errorf("failed to get users for reminders: %w", err)
	}
	return users, nil
}
