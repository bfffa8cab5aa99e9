package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Notifier sends reminder messages to users
type Notifier interface {
	SendReminder(userID int64) error
}

// PendingExpirer clears review and edit markers that outlived their TTL
type PendingExpirer interface {
	ExpirePending(now time.Time) int
}

// Config controls when scheduled jobs run
type Config struct {
	// Cron is the reminder sweep schedule, e.g. "0 9 * * *"; empty disables reminders
	Cron string
	// Location is used both for the cron schedule and for reminder times
	Location *time.Location
	// ExpiryInterval is how often stale pending markers are cleared; zero disables the job
	ExpiryInterval time.Duration
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweep     *Sweep
	notifier  Notifier
	expirer   PendingExpirer
	config    Config
}

// New creates a new scheduler instance. expirer may be nil.
func New(sweep *Sweep, notifier Notifier, expirer PendingExpirer, cfg Config) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	s := gocron.NewScheduler(cfg.Location)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		sweep:     sweep,
		notifier:  notifier,
		expirer:   expirer,
		config:    cfg,
	}
}

// Start registers all jobs and begins running them in the background
func (s *Scheduler) Start() error {
	if s.config.Cron != "" {
		if _, err := s.scheduler.Cron(s.config.Cron).Do(s.runSweep); err != nil {
			return fmt.Errorf("failed to schedule reminder sweep %q: %w", s.config.Cron, err)
		}
	}

	if s.expirer != nil && s.config.ExpiryInterval > 0 {
		if _, err := s.scheduler.Every(s.config.ExpiryInterval).Do(s.expirePending); err != nil {
			return fmt.Errorf("failed to schedule pending expiry: %w", err)
		}
	}

	s.scheduler.StartAsync()
	log.Printf("scheduler: started %d jobs, reminder sweep %q (%s)", s.JobCount(), s.config.Cron, s.config.Location)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	log.Println("scheduler: stopped")
}

// JobCount returns the number of registered jobs
func (s *Scheduler) JobCount() int {
	return len(s.scheduler.Jobs())
}

func (s *Scheduler) runSweep() {
	if _, err := s.RunSweep(context.Background(), time.Now()); err != nil {
		log.Printf("scheduler: reminder sweep failed: %v", err)
	}
}

// RunSweep selects the users to remind at now and hands them to the notifier.
// Sending happens in the background; RunSweep does not wait for delivery.
func (s *Scheduler) RunSweep(ctx context.Context, now time.Time) ([]int64, error) {
	ids, err := s.sweep.Tick(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	log.Printf("scheduler: sending reminders to %d users", len(ids))
	go func(ids []int64) {
		for _, id := range ids {
			if err := s.notifier.SendReminder(id); err != nil {
				log.Printf("scheduler: error sending reminder to user %d: %v", id, err)
			}
		}
	}(ids)
	return ids, nil
}

func (s *Scheduler) expirePending() {
	if n := s.expirer.ExpirePending(time.Now()); n > 0 {
		log.Printf("scheduler: expired %d pending markers", n)
	}
}
