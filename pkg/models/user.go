package models

import "time"

// User represents a Telegram user of the bot
type User struct {
	ID              int64     `json:"id" db:"id"` // Telegram user ID
	ReminderEnabled bool      `json:"reminder_enabled" db:"reminder_enabled"`
	ReminderTime    *string   `json:"reminder_time,omitempty" db:"reminder_time"` // HH:MM, nil when not fixed
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// HasFixedReminderTime reports whether the user has a fixed time-of-day for reminders
func (u User) HasFixedReminderTime() bool {
	return u.ReminderTime != nil && *u.ReminderTime != ""
}
