// Package scheduler runs the digest pipeline on a cron schedule.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser supports standard 5-field cron expressions and
// descriptors like @daily.
var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule parses a cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	return cronParser.Parse(expr)
}

// Job runs one scheduled digest generation.
type Job func(ctx context.Context) error

// Scheduler fires a single job on a cron schedule. Job errors are
// logged and the schedule keeps going; the platform is fetched
// fresh on the next tick anyway.
type Scheduler struct {
	schedule cron.Schedule
	job      Job
	now      func() time.Time
}

// New returns a Scheduler for the given schedule and job.
func New(schedule cron.Schedule, job Job) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		job:      job,
		now:      time.Now,
	}
}

// Next returns the next fire time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Run blocks, firing the job at each scheduled time, until ctx is
// cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		now := s.now()
		next := s.schedule.Next(now)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		log.Printf("scheduler: running digest job (scheduled %s)",
			next.UTC().Format(time.RFC3339))
		if err := s.job(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("scheduler: digest job failed: %v", err)
		}
	}
}
