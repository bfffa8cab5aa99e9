package review

import (
	"context"
	"log"
	"strings"
	"time"
)

// BeginEdit marks cardID as awaiting replacement text, replacing any
// earlier pending review or edit of the user.
func (c *Coordinator) BeginEdit(ctx context.Context, userID, cardID int64) error {
	s := c.lock(userID)
	defer s.mu.Unlock()

	if _, err := c.store.GetCard(ctx, userID, cardID); err != nil {
		return notFound(err)
	}
	c.mark(s, AwaitingEditText, cardID)
	return nil
}

// CompleteEdit replaces the question of the card chosen with BeginEdit.
// Without a pending edit it returns ErrInvalidState and changes nothing.
func (c *Coordinator) CompleteEdit(ctx context.Context, userID int64, text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrEmptyQuestion
	}

	s := c.lock(userID)
	defer s.mu.Unlock()

	if s.pending.State != AwaitingEditText {
		return 0, ErrInvalidState
	}
	cardID := s.pending.CardID
	s.pending = Pending{}

	if err := c.store.UpdateQuestion(ctx, userID, cardID, text); err != nil {
		return cardID, notFound(err)
	}
	return cardID, nil
}

// CancelPending clears whatever review or edit the user left unfinished.
// It reports the state that was cleared.
func (c *Coordinator) CancelPending(userID int64) State {
	s := c.lock(userID)
	defer s.mu.Unlock()

	prev := s.pending.State
	s.pending = Pending{}
	return prev
}

// ExpirePending clears markers created more than the configured TTL before now.
// It does nothing when no TTL is configured and returns the number cleared.
func (c *Coordinator) ExpirePending(now time.Time) int {
	ttl := c.config.PendingTTL
	if ttl <= 0 {
		return 0
	}

	c.mu.Lock()
	users := make([]int64, 0, len(c.sessions))
	for id := range c.sessions {
		users = append(users, id)
	}
	c.mu.Unlock()

	expired := 0
	for _, id := range users {
		s := c.lock(id)
		if s.pending.State != Idle && now.Sub(s.pending.CreatedAt) > ttl {
			log.Printf("review: expiring %s marker for user %d card %d", s.pending.State, id, s.pending.CardID)
			s.pending = Pending{}
			expired++
		}
		s.mu.Unlock()
	}
	return expired
}
