// Package review sequences Leitner reviews and edits for each user.
//
// The Coordinator owns the transient per-user pending state (the card
// awaiting an outcome, or the card awaiting new text) and is the only
// caller of the scheduling engine. Operations for the same user are
// serialized; different users proceed in parallel.
package review

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/example/leitnerbot/internal/database"
	"github.com/example/leitnerbot/pkg/models"
)

// CardStore is the persistence the coordinator depends on
type CardStore interface {
	EnsureUser(ctx context.Context, userID int64) (bool, error)
	ToggleReminder(ctx context.Context, userID int64) (bool, error)
	CreateCard(ctx context.Context, card *models.Flashcard) error
	GetCard(ctx context.Context, userID, cardID int64) (*models.Flashcard, error)
	ListDue(ctx context.Context, userID int64, asOf models.Date) ([]models.Flashcard, error)
	ListAll(ctx context.Context, userID int64) ([]models.Flashcard, error)
	CountByBox(ctx context.Context, userID int64) ([]models.BoxCount, error)
	ApplyOutcome(ctx context.Context, userID, cardID int64, box int, due models.Date) error
	UpdateQuestion(ctx context.Context, userID, cardID int64, question string) error
	DeleteCard(ctx context.Context, userID, cardID int64) error
}

// State is the conversation state of a single user
type State int

const (
	Idle State = iota
	AwaitingOutcome
	AwaitingEditText
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingOutcome:
		return "awaiting_outcome"
	case AwaitingEditText:
		return "awaiting_edit_text"
	}
	return "unknown"
}

// Pending is the marker of an in-flight review or edit.
// CardID is zero only in the Idle state.
type Pending struct {
	State     State
	CardID    int64
	CreatedAt time.Time
}

type session struct {
	mu      sync.Mutex
	pending Pending
}

// Config holds the coordinator's tunables
type Config struct {
	// Location defines calendar days for due-date computation
	Location *time.Location
	// PendingTTL expires markers older than this in ExpirePending; zero disables expiry
	PendingTTL time.Duration
	// Now overrides the wall clock, for tests
	Now func() time.Time
}

// Coordinator runs review and edit sessions on top of a CardStore
type Coordinator struct {
	store  CardStore
	config Config

	mu       sync.Mutex
	sessions map[int64]*session
}

// NewCoordinator creates a coordinator for the given store
func NewCoordinator(store CardStore, cfg Config) *Coordinator {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Coordinator{
		store:    store,
		config:   cfg,
		sessions: make(map[int64]*session),
	}
}

// Now returns the coordinator's current time
func (c *Coordinator) Now() time.Time {
	return c.config.Now()
}

// Today returns the current calendar day in the configured location
func (c *Coordinator) Today() models.Date {
	return models.DateOf(c.config.Now().In(c.config.Location))
}

// Pending returns the user's current pending marker
func (c *Coordinator) Pending(userID int64) Pending {
	s := c.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// lock acquires the user's session and returns it locked.
// Callers must unlock s.mu when done.
func (c *Coordinator) lock(userID int64) *session {
	s := c.session(userID)
	s.mu.Lock()
	return s
}

func (c *Coordinator) session(userID int64) *session {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[userID]
	if !ok {
		s = &session{}
		c.sessions[userID] = s
	}
	return s
}

func (c *Coordinator) mark(s *session, state State, cardID int64) {
	s.pending = Pending{State: state, CardID: cardID, CreatedAt: c.config.Now()}
}

// notFound translates a store miss into ErrNotFound and passes other errors through
func notFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
