// Package cache coordinates "flush all caches" across independent cache owners.
//
// Every component that keeps a cache registers a Flusher under a unique name. FlushAll
// invokes all of them concurrently (bounded by WithConcurrency) and reports every failure,
// not just the first.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrDuplicateName is returned by Add when a name is already registered.
	ErrDuplicateName = errors.New("cache: duplicate name")
	// ErrInvalidName is returned by Add for an empty name.
	ErrInvalidName = errors.New("cache: invalid name")
)

// Flusher empties one cache.
type Flusher func(context.Context) error

type entry struct {
	name string
	fn   Flusher
}

// Registry holds named flushers. It is safe for concurrent use.
type Registry struct {
	logger *slog.Logger
	limit  int

	mu      sync.RWMutex
	entries []entry
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report flush failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithConcurrency bounds how many flushers run at once. n <= 0 means unbounded.
func WithConcurrency(n int) Option {
	return func(r *Registry) { r.limit = n }
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{logger: slog.Default(), limit: 4}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Add registers fn under name.
func (r *Registry) Add(name string, fn Flusher) error {
	if fn == nil {
		panic("cache: Add called with nil Flusher")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.name == name {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	r.entries = append(r.entries, entry{name: name, fn: fn})
	return nil
}

// MustAdd is like Add but panics on error.
func (r *Registry) MustAdd(name string, fn Flusher) {
	if err := r.Add(name, fn); err != nil {
		panic(err)
	}
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.name)
	}
	return out
}

// FlushAll runs every flusher and returns all failures joined.
//
// One failing flusher does not cancel the others.
func (r *Registry) FlushAll(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r.mu.RLock()
	entries := append([]entry(nil), r.entries...)
	r.mu.RUnlock()

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for _, e := range entries {
		e := e
		g.Go(func() error {
			if err := flushOne(ctx, e); err != nil {
				r.logger.ErrorContext(ctx, "cache: flush failed", slog.String("cache", e.name), slog.Any("err", err))
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", e.name, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func flushOne(ctx context.Context, e entry) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("cache: flusher panicked: %v", p)
		}
	}()
	return e.fn(ctx)
}
