package ops

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// LogRecord is one captured log line.
type LogRecord struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Attrs   []KV      `json:"attrs,omitempty"`
}

// LogRing keeps the most recent log records in memory. It is safe for concurrent use.
type LogRing struct {
	mu   sync.Mutex
	buf  []LogRecord
	next int
	full bool
}

// NewLogRing creates a ring holding up to size records. size <= 0 means 200.
func NewLogRing(size int) *LogRing {
	if size <= 0 {
		size = 200
	}
	return &LogRing{buf: make([]LogRecord, size)}
}

func (r *LogRing) add(rec LogRecord) {
	r.mu.Lock()
	r.buf[r.next] = rec
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
	r.mu.Unlock()
}

// Records returns up to limit records at or above minLevel, newest first. limit <= 0 means all.
func (r *LogRing) Records(minLevel slog.Level, limit int) []LogRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.next
	if r.full {
		n = len(r.buf)
	}
	out := make([]LogRecord, 0, n)
	for i := 0; i < n; i++ {
		idx := (r.next - 1 - i + len(r.buf)) % len(r.buf)
		rec := r.buf[idx]
		if parseLevelOr(rec.Level, slog.LevelInfo) < minLevel {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Handler returns a slog.Handler that records into r and then forwards to next.
// next may be nil. Records below level are neither captured nor forwarded.
func (r *LogRing) Handler(next slog.Handler, level slog.Leveler) slog.Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ringHandler{ring: r, next: next, level: level}
}

type ringHandler struct {
	ring   *LogRing
	next   slog.Handler
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func (h *ringHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *ringHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := LogRecord{Time: rec.Time, Level: levelName(rec.Level), Message: rec.Message}
	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		out.Attrs = appendAttr(out.Attrs, "", a)
	}
	rec.Attrs(func(a slog.Attr) bool {
		out.Attrs = appendAttr(out.Attrs, prefix, a)
		return true
	})
	h.ring.add(out)

	if h.next != nil && h.next.Enabled(ctx, rec.Level) {
		return h.next.Handle(ctx, rec)
	}
	return nil
}

func (h *ringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	prefix := strings.Join(h.groups, ".")
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if prefix != "" {
			a = slog.Attr{Key: prefix + "." + a.Key, Value: a.Value}
		}
		c.attrs = append(c.attrs, a)
	}
	if h.next != nil {
		c.next = h.next.WithAttrs(attrs)
	}
	return &c
}

func (h *ringHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.groups = append(append([]string(nil), h.groups...), name)
	if h.next != nil {
		c.next = h.next.WithGroup(name)
	}
	return &c
}

func appendAttr(dst []KV, prefix string, a slog.Attr) []KV {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			dst = appendAttr(dst, key, ga)
		}
		return dst
	}
	return append(dst, KV{Key: key, Value: a.Value.String()})
}

// levelName maps an arbitrary slog.Level onto debug/info/warn/error.
func levelName(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "debug"
	case l < slog.LevelWarn:
		return "info"
	case l < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}

// parseLevelOr accepts debug/info/warn/error (case-insensitive, "warning" and "err" too).
func parseLevelOr(s string, def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return def
	}
}
