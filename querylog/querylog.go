// Package querylog records the database queries issued while serving one request.
//
// Start must run at the outermost layer of request handling so that every query
// issued further down is counted:
//
//	h := httpx.Wrap(app, querylog.Start(), ...)
//
// Queries are recorded either explicitly with Record, or implicitly by routing
// database access through Wrap:
//
//	db := querylog.Wrap(sqlDB)
//	rows, err := db.QueryContext(r.Context(), "SELECT ...")
package querylog

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Entry is one recorded query.
type Entry struct {
	Query    string
	Args     int
	Started  time.Time
	Duration time.Duration
	Err      string
}

// Log is a per-request query log. It is safe for concurrent use, since a handler
// may fan out queries across goroutines.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// New creates an empty Log.
func New() *Log { return &Log{} }

// Add appends e.
func (l *Log) Add(e Entry) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
}

// Count returns the number of recorded queries.
func (l *Log) Count() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of the recorded entries in insertion order.
func (l *Log) Entries() []Entry {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

type logKey struct{}

// WithLog returns a derived context carrying l.
func WithLog(ctx context.Context, l *Log) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, logKey{}, l)
}

// FromContext returns the Log in ctx, if any.
func FromContext(ctx context.Context) (*Log, bool) {
	if ctx == nil {
		return nil, false
	}
	l, ok := ctx.Value(logKey{}).(*Log)
	return l, ok && l != nil
}

// Record appends a query to the Log carried by ctx. Without a Log it does nothing.
func Record(ctx context.Context, query string, d time.Duration) {
	if l, ok := FromContext(ctx); ok {
		l.Add(Entry{Query: query, Started: time.Now().Add(-d), Duration: d})
	}
}

// Start returns a middleware that attaches a fresh Log to every request.
//
// An existing Log in the request context is kept, so nesting Start is harmless.
func Start() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			panic("querylog: nil next handler")
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithLog(r.Context(), New())))
		})
	}
}
