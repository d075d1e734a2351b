// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package job runs periodic maintenance work on a cron schedule.
package job

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Named is implemented by jobs that want a readable name in the logs.
type Named interface {
	Name() string
}

// Scheduler owns the cron engine. Overlapping runs of one job are skipped.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

// NewScheduler creates a stopped scheduler. Schedules accept an optional
// seconds field and the @hourly style descriptors.
func NewScheduler(log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With("component", "cron"),
	}
}

// Register adds j under spec. The job name is resolved here, before any
// wrapper hides j behind a cron.FuncJob.
func (s *Scheduler) Register(spec string, j cron.Job) error {
	name := jobName(j)
	wrapped := cron.NewChain(
		recoverWrapper(s.log, name),
		logWrapper(s.log, name),
		cron.SkipIfStillRunning(cron.DiscardLogger),
	).Then(j)
	if _, err := s.cron.AddJob(spec, wrapped); err != nil {
		return fmt.Errorf("register job %s on %q: %w", name, spec, err)
	}
	s.log.Info("job registered", "job", name, "schedule", spec)
	return nil
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "jobs", s.Len())
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

func logWrapper(log *slog.Logger, name string) cron.JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			l := log.With("job", name, "run_id", uuid.NewString())
			start := time.Now()
			l.Debug("job started")
			j.Run()
			l.Debug("job finished", "duration", time.Since(start))
		})
	}
}

func recoverWrapper(log *slog.Logger, name string) cron.JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error("job panicked", "job", name, "panic", r, "stack", string(debug.Stack()))
				}
			}()
			j.Run()
		})
	}
}

func jobName(j cron.Job) string {
	if n, ok := j.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", j)
}
