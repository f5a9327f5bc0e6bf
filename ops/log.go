package ops

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type recentLogConfig struct {
	format Format
	limit  int
}

// RecentLogOption configures RecentLogHandler.
type RecentLogOption func(*recentLogConfig)

// WithRecentLogDefaultFormat sets the default response format. Default is FormatText.
func WithRecentLogDefaultFormat(f Format) RecentLogOption {
	return func(c *recentLogConfig) { c.format = f }
}

// WithRecentLogLimit sets the default number of records shown. Default is 50.
func WithRecentLogLimit(n int) RecentLogOption {
	return func(c *recentLogConfig) { c.limit = n }
}

// RecentLogHandler serves the newest records of ring.
//
// Query parameters:
//   - level=debug|info|warn|error: minimum level (default debug, i.e. everything captured)
//   - limit=N: number of records
func RecentLogHandler(ring *LogRing, opts ...RecentLogOption) http.Handler {
	if ring == nil {
		panic("ops: nil LogRing")
	}
	cfg := recentLogConfig{format: FormatText, limit: 50}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.format = normalizeFormat(cfg.format)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := formatFromRequest(r, cfg.format)
		if !readOnly(w, r, format) {
			return
		}
		q := r.URL.Query()
		minLevel := parseLevelOr(q.Get("level"), slog.LevelDebug)
		limit := cfg.limit
		if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
			limit = n
		}
		recs := ring.Records(minLevel, limit)
		write(w, r, format, http.StatusOK, response{OK: true, Data: recs}, func(b *strings.Builder) {
			for _, rec := range recs {
				b.WriteString(rec.Time.Format(time.RFC3339))
				b.WriteByte('\t')
				b.WriteString(rec.Level)
				b.WriteByte('\t')
				b.WriteString(oneLine(rec.Message))
				for _, kv := range rec.Attrs {
					b.WriteByte('\t')
					b.WriteString(kv.Key)
					b.WriteByte('=')
					b.WriteString(oneLine(kv.Value))
				}
				b.WriteByte('\n')
			}
		})
	})
}
