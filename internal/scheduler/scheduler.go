// Package scheduler wires the reconciliation jobs onto their cron
// schedules. It carries no business logic: timing, top-level error
// containment, and summary fan-out only.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/squadworks/backoffice/internal/syncer"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// NextRun parses a 5-field cron expression and returns the duration until
// its next fire time. Returns 0 on parse error.
func NextRun(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// Job is a runnable batch producing a run summary.
type Job interface {
	Run(ctx context.Context) (*syncer.Summary, error)
}

// AfterRunFunc receives each successful run's summary, e.g. for chat
// notification.
type AfterRunFunc func(name string, sum *syncer.Summary)

// Scheduler owns the cron runner for all registered jobs. Panics inside a
// job are recovered so one bad run never starves the schedule.
type Scheduler struct {
	cron     *cron.Cron
	afterRun AfterRunFunc
}

// New builds an empty scheduler. afterRun may be nil.
func New(afterRun AfterRunFunc) *Scheduler {
	c := cron.New(
		cron.WithParser(cronParser),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)
	return &Scheduler{cron: c, afterRun: afterRun}
}

// AddJob registers a named job on a cron expression.
func (s *Scheduler) AddJob(name, expr string, job Job) error {
	_, err := s.cron.AddFunc(expr, func() {
		s.runJob(name, job)
	})
	if err != nil {
		return fmt.Errorf("scheduler: add job %s (%q): %w", name, expr, err)
	}
	return nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// runJob executes one run. Errors (including missing-credential
// configuration errors) abort this run only; the scheduler keeps going.
func (s *Scheduler) runJob(name string, job Job) {
	sum, err := job.Run(context.Background())
	if err != nil {
		log.Printf("scheduler: %s run failed: %v", name, err)
		return
	}
	if s.afterRun != nil {
		s.afterRun(name, sum)
	}
}

// Run starts the cron loop and blocks until ctx is cancelled, then waits
// for any in-flight job to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}
