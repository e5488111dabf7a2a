package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job is a named maintenance task run on a standard five-field cron schedule.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

type scheduledJob struct {
	Job
	schedule cron.Schedule
	nextRun  time.Time
}

// Scheduler checks for and executes due maintenance jobs.
type Scheduler struct {
	jobs     []*scheduledJob
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	done     chan struct{}
	stopped  chan struct{}
}

// NewScheduler parses every job's cron expression and returns a scheduler
// that checks for due jobs once a minute.
func NewScheduler(jobs ...Job) (*Scheduler, error) {
	s := &Scheduler{
		interval: time.Minute,
		timeout:  30 * time.Second,
		now:      time.Now,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	start := s.now()
	for _, job := range jobs {
		schedule, err := cron.ParseStandard(job.Spec)
		if err != nil {
			return nil, fmt.Errorf("invalid cron expression %q for job %s: %w", job.Spec, job.Name, err)
		}
		s.jobs = append(s.jobs, &scheduledJob{
			Job:      job,
			schedule: schedule,
			nextRun:  schedule.Next(start),
		})
	}
	return s, nil
}

// Run starts the scheduler's ticking loop. It returns after Stop.
func (s *Scheduler) Run() {
	log.Info().Int("jobs", len(s.jobs)).Msg("Starting background scheduler")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.stopped)

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping background scheduler")
			return
		case <-ticker.C:
			s.runDue(s.now())
		}
	}
}

// Stop halts the scheduler and waits for the loop to exit.
func (s *Scheduler) Stop() {
	close(s.done)
	<-s.stopped
}

// runDue executes every job whose next run time has passed, then schedules
// its following run.
func (s *Scheduler) runDue(now time.Time) {
	for _, job := range s.jobs {
		if now.Before(job.nextRun) {
			continue
		}
		s.execute(job)
		job.nextRun = job.schedule.Next(now)
	}
}

func (s *Scheduler) execute(job *scheduledJob) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		log.Error().Err(err).Str("job", job.Name).Msg("Scheduled job failed")
		return
	}
	log.Debug().Str("job", job.Name).Dur("took", time.Since(start)).Msg("Scheduled job finished")
}
