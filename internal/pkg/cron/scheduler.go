package cron

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Job is a named task run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Status is the last observed outcome of a job.
type Status struct {
	Name     string        `json:"name"`
	Interval time.Duration `json:"interval"`
	LastRun  time.Time     `json:"last_run"`
	LastErr  string        `json:"last_error,omitempty"`
	Runs     int           `json:"runs"`
	Failures int           `json:"failures"`
}

// Scheduler runs payroll maintenance jobs until its context is cancelled.
type Scheduler struct {
	jobs    []Job
	running map[string]bool
	status  map[string]*Status
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		running: make(map[string]bool),
		status:  make(map[string]*Status),
	}
}

// AddJob registers a job. Jobs added after Start are not scheduled.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{Name: name, Interval: interval, Fn: fn})
	s.status[name] = &Status{Name: name, Interval: interval}
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// Start runs every job immediately and then on its interval. The jobs stop when
// ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}

	slog.Info("Stopping cron scheduler...")
	cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.execute(ctx, job)
	for {
		select {
		case <-ctx.Done():
			slog.Debug("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.execute(ctx, job)
		}
	}
}

// execute skips a tick when the previous run of the same job is still going.
func (s *Scheduler) execute(ctx context.Context, job Job) {
	s.mu.Lock()
	if s.running[job.Name] {
		s.mu.Unlock()
		slog.Warn("Cron job still running, skipping tick", "name", job.Name)
		return
	}
	s.running[job.Name] = true
	s.mu.Unlock()

	start := time.Now()
	err := job.Fn(ctx)
	elapsed := time.Since(start)

	s.mu.Lock()
	s.running[job.Name] = false
	st := s.status[job.Name]
	st.LastRun = start
	st.Runs++
	st.LastErr = ""
	if err != nil {
		st.Failures++
		st.LastErr = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", elapsed)
		return
	}
	slog.Debug("Cron job completed", "name", job.Name, "duration", elapsed)
}

// RunOnce runs every registered job a single time in registration order.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.execute(ctx, job)
	}
}

// Statuses returns a snapshot of every job sorted by name.
func (s *Scheduler) Statuses() []Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Status, 0, len(s.status))
	for _, st := range s.status {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
