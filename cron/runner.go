package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Job is a unit of scheduled work.
type Job func(context.Context) error

// Status is a point-in-time view of one job.
type Status struct {
	Name string `json:"name"`

	RunCount  uint64 `json:"run_count"`
	FailCount uint64 `json:"fail_count"`

	LastStarted  time.Time     `json:"last_started"`
	LastFinished time.Time     `json:"last_finished"`
	LastDuration time.Duration `json:"last_duration"`
	// LastError is the most recent failure; it is not cleared on success.
	LastError string `json:"last_error,omitempty"`
}

// Snapshot is a point-in-time view of a Runner.
type Snapshot struct {
	Running bool      `json:"running"`
	LastRun time.Time `json:"last_run"`
	Jobs    []Status  `json:"jobs"`
}

// Get finds a job status by name.
func (s Snapshot) Get(name string) (Status, bool) {
	for _, st := range s.Jobs {
		if st.Name == name {
			return st, true
		}
	}
	return Status{}, false
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for job failures. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

type job struct {
	name string
	fn   Job
	st   Status
}

// Runner holds jobs and runs them on demand. It is safe for concurrent use.
type Runner struct {
	logger *slog.Logger
	now    func() time.Time

	mu   sync.Mutex
	jobs []*job
	// lastRun is the completion time of the last Run (unix nanos, 0 = never).
	lastRun atomic.Int64

	running atomic.Bool
}

// NewRunner creates an empty Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Add registers a job.
func (r *Runner) Add(name string, fn Job) error {
	if fn == nil {
		panic("cron: Add called with nil Job")
	}
	name = normalizeName(name)
	if err := validateName(name); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidName, name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.name == name {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	r.jobs = append(r.jobs, &job{name: name, fn: fn, st: Status{Name: name}})
	return nil
}

// MustAdd is like Add but panics on error.
func (r *Runner) MustAdd(name string, fn Job) {
	if err := r.Add(name, fn); err != nil {
		panic(err)
	}
}

// Run runs every job once, in registration order.
//
// The returned error joins all job failures. The last-run time is updated even when
// some jobs fail, as long as the run was not rejected with ErrAlreadyRunning.
func (r *Runner) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer r.running.Store(false)

	r.mu.Lock()
	jobs := append([]*job(nil), r.jobs...)
	r.mu.Unlock()

	var errs []error
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := r.runOne(ctx, j); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", j.name, err))
		}
	}
	r.lastRun.Store(r.now().UnixNano())
	return errors.Join(errs...)
}

func (r *Runner) runOne(ctx context.Context, j *job) (err error) {
	started := r.now()
	defer func() {
		if p := recover(); p != nil {
			r.logger.ErrorContext(ctx, "cron: job panicked", slog.String("job", j.name), slog.Any("panic", p))
			err = ErrPanicked
		}
		finished := r.now()
		r.mu.Lock()
		j.st.RunCount++
		j.st.LastStarted = started
		j.st.LastFinished = finished
		j.st.LastDuration = finished.Sub(started)
		if err != nil {
			j.st.FailCount++
			j.st.LastError = err.Error()
		}
		r.mu.Unlock()
		if err != nil && !errors.Is(err, ErrPanicked) {
			r.logger.ErrorContext(ctx, "cron: job failed", slog.String("job", j.name), slog.Any("err", err))
		}
	}()
	return j.fn(ctx)
}

// LastRun returns the completion time of the last Run, or the zero time if never run.
func (r *Runner) LastRun() time.Time {
	ns := r.lastRun.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Snapshot returns the current status of all jobs in registration order.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	out := Snapshot{Jobs: make([]Status, 0, len(r.jobs))}
	for _, j := range r.jobs {
		out.Jobs = append(out.Jobs, j.st)
	}
	r.mu.Unlock()
	out.Running = r.running.Load()
	out.LastRun = r.LastRun()
	return out
}
