package briefing

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the daily briefing job. Runs never overlap: if a briefing
// is still being generated when the next tick fires, that tick is skipped.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// AddDaily schedules job every day at the given "HH:MM" time (UTC).
func (s *Scheduler) AddDaily(at string, job func()) error {
	var hour, minute int
	if _, err := fmt.Sscanf(strings.TrimSpace(at), "%d:%d", &hour, &minute); err != nil {
		return fmt.Errorf("parse briefing time %q: %w", at, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("briefing time %q out of range", at)
	}

	spec := fmt.Sprintf("CRON_TZ=UTC %d %d * * *", minute, hour)
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("schedule briefing: %w", err)
	}
	return nil
}

// Start begins running scheduled jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
