/**
 * @description
 * Cron scheduler for housekeeping jobs. The only scheduled job removes expired
 * session rows. Settlement is not scheduled here; it runs on one-shot timers
 * armed at initiation time and has no retry.
 *
 * @dependencies
 * - github.com/robfig/cron/v3: Cron job scheduling.
 */
package app

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron          *cron.Cron
	service       *Service
	sweepSchedule string
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(service *Service, sweepSchedule string) *Scheduler {
	c := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(log.Default()))))
	return &Scheduler{
		cron:          c,
		service:       service,
		sweepSchedule: sweepSchedule,
	}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.sweepSchedule, s.service.SweepExpiredSessions); err != nil {
		log.Printf("level=error component=scheduler msg=\"failed to schedule session sweep job\" schedule=%q err=%v", s.sweepSchedule, err)
	} else {
		log.Printf("level=info component=scheduler msg=\"scheduled session sweep job\" schedule=%q", s.sweepSchedule)
	}

	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// SweepExpiredSessions deletes session rows whose expiry has passed.
func (s *Service) SweepExpiredSessions() {
	removed, err := s.repo.DeleteExpiredSessions(context.Background())
	if err != nil {
		log.Printf("level=error component=scheduler msg=\"session sweep failed\" err=%v", err)
		return
	}
	if removed > 0 {
		log.Printf("level=info component=scheduler msg=\"expired sessions removed\" count=%d", removed)
	}
}
