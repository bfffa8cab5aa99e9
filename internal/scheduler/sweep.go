package scheduler

import (
	"context"
	"time"

	"github.com/example/leitnerbot/pkg/models"
)

// ReminderTimeLayout is the format of a user's fixed reminder time
const ReminderTimeLayout = "15:04"

// UserSource lists users whose reminders are switched on
type UserSource interface {
	ListReminderUsers(ctx context.Context) ([]models.User, error)
}

// Sweep decides which users receive a reminder on a scheduling tick
type Sweep struct {
	users    UserSource
	location *time.Location
}

// NewSweep creates a sweep that reads reminder times in loc
func NewSweep(users UserSource, loc *time.Location) *Sweep {
	if loc == nil {
		loc = time.UTC
	}
	return &Sweep{users: users, location: loc}
}

// Tick returns the IDs of users to remind at now.
//
// Every user with reminders enabled is selected, except that a user with a
// fixed reminder time is only selected when now falls in exactly that
// minute. Whether the user has cards due is not consulted.
func (s *Sweep) Tick(ctx context.Context, now time.Time) ([]int64, error) {
	users, err := s.users.ListReminderUsers(ctx)
	if err != nil {
		return nil, err
	}

	current := now.In(s.location).Format(ReminderTimeLayout)

	var ids []int64
	for _, u := range users {
		if !u.ReminderEnabled {
			continue
		}
		if u.HasFixedReminderTime() && *u.ReminderTime != current {
			continue
		}
		ids = append(ids, u.ID)
	}
	return ids, nil
}

// ValidReminderTime reports whether s is a well-formed HH:MM time-of-day
func ValidReminderTime(s string) bool {
	t, err := time.Parse(ReminderTimeLayout, s)
	return err == nil && t.Format(ReminderTimeLayout) == s
}
