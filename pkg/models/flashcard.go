package models

import "database/sql"

// Flashcard is a question/answer pair owned by a single user
type Flashcard struct {
	ID        int64          `json:"id" db:"id"`
	UserID    int64          `json:"user_id" db:"user_id"`
	Question  string         `json:"question" db:"question"`
	Answer    sql.NullString `json:"answer" db:"answer"`         // absent for reference-only cards
	AnswerRef sql.NullInt64  `json:"answer_ref" db:"answer_ref"` // message ID holding the answer content
	Box       int            `json:"box" db:"box"`
	DueDate   Date           `json:"due_date" db:"due_date"`
	CreatedAt Date           `json:"created_at" db:"created_on"`
}

// HasTextAnswer reports whether the card can be graded by comparing typed text
func (c Flashcard) HasTextAnswer() bool {
	return c.Answer.Valid && c.Answer.String != ""
}

// IsDue reports whether the card should be presented on the given day
func (c Flashcard) IsDue(today Date) bool {
	return !c.DueDate.After(today)
}

// BoxCount is the number of cards a user holds in one box
type BoxCount struct {
	Box   int `json:"box" db:"box"`
	Count int `json:"count" db:"count"`
}
