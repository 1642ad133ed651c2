// Package scheduler runs the periodic background jobs: copying Redis view
// counters into Postgres and probing the counter store for health reporting.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"jobmate/careers-service/internal/logging"
)

// Snapshotter reads every counter under a key prefix.
type Snapshotter interface {
	Snapshot(ctx context.Context, prefix string) (map[string]int64, error)
}

// Sink persists a counter snapshot, keeping the larger of stored and given values.
type Sink interface {
	Merge(ctx context.Context, snapshot map[string]int64) error
}

// Prober reports whether a dependency is reachable.
type Prober interface {
	Ping(ctx context.Context) error
}

// HealthFunc receives the result of each probe.
type HealthFunc func(serving bool)

// probeInterval is how often the counter store is pinged.
const probeInterval = 30 * time.Second

// Scheduler wraps robfig/cron and owns the background jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *logging.Logger
	jobs []job

	startup sync.WaitGroup
}

type job struct {
	name string
	spec string
	run  func(ctx context.Context)
}

// New returns an empty Scheduler.
func New(log *logging.Logger) *Scheduler {
	log = log.With("component", "scheduler")
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cronLogger{log}), cron.WithChain(cron.SkipIfStillRunning(cronLogger{log}))),
		log:  log,
	}
}

// AddBackup schedules a copy of every counter under prefix from src to dst
// every interval. Source counters are never modified.
func (s *Scheduler) AddBackup(src Snapshotter, dst Sink, prefix string, interval time.Duration) {
	s.jobs = append(s.jobs, job{
		name: "counter-backup",
		spec: every(interval),
		run: func(ctx context.Context) {
			n, err := Backup(ctx, src, dst, prefix)
			if err != nil {
				s.log.Error("counter backup failed", "err", err)
				return
			}
			s.log.Info("counter backup complete", "counters", n)
		},
	})
}

// AddHealthProbe pings p every 30s and reports the result to report.
func (s *Scheduler) AddHealthProbe(p Prober, report HealthFunc) {
	s.jobs = append(s.jobs, job{
		name: "health-probe",
		spec: every(probeInterval),
		run: func(ctx context.Context) {
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			err := p.Ping(pctx)
			if err != nil {
				s.log.Warn("counter store ping failed", "err", err)
			}
			report(err == nil)
		},
	})
}

// Start registers all jobs, starts the cron loop and runs every job once
// immediately in the background. The startup run goes through the same
// SkipIfStillRunning wrapper as scheduled ticks.
func (s *Scheduler) Start(ctx context.Context) error {
	ids := make([]cron.EntryID, 0, len(s.jobs))
	for _, j := range s.jobs {
		run := j.run
		id, err := s.cron.AddFunc(j.spec, func() { run(ctx) })
		if err != nil {
			return fmt.Errorf("cron.AddFunc %s: %w", j.name, err)
		}
		ids = append(ids, id)
	}

	s.cron.Start()
	s.log.Info("cron started", "jobs", len(s.jobs))

	for _, id := range ids {
		wrapped := s.cron.Entry(id).WrappedJob
		s.startup.Add(1)
		go func() {
			defer s.startup.Done()
			wrapped.Run()
		}()
	}
	return nil
}

// Stop halts the cron loop and waits for running jobs, including the
// startup runs, to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.startup.Wait()
	s.log.Info("cron stopped")
}

// Backup copies all counters under prefix from src into dst and returns how
// many were copied.
func Backup(ctx context.Context, src Snapshotter, dst Sink, prefix string) (int, error) {
	snap, err := src.Snapshot(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("snapshot: %w", err)
	}
	if len(snap) == 0 {
		return 0, nil
	}
	if err := dst.Merge(ctx, snap); err != nil {
		return 0, fmt.Errorf("merge: %w", err)
	}
	return len(snap), nil
}

func every(d time.Duration) string {
	return "@every " + d.String()
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	log *logging.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
