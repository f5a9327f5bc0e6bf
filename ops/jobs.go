package ops

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/evan-idocoding/debugbar/cron"
)

type jobsConfig struct {
	format Format
}

// JobsOption configures JobsHandler.
type JobsOption func(*jobsConfig)

// WithJobsDefaultFormat sets the default response format. Default is FormatText.
func WithJobsDefaultFormat(f Format) JobsOption {
	return func(c *jobsConfig) { c.format = f }
}

// JobsHandler serves the status of every job registered on runner.
//
// It never runs jobs; the bar's run-cron link does that.
func JobsHandler(runner *cron.Runner, opts ...JobsOption) http.Handler {
	if runner == nil {
		panic("ops: nil cron.Runner")
	}
	cfg := jobsConfig{format: FormatText}
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
		snap := runner.Snapshot()
		write(w, r, format, http.StatusOK, response{OK: true, Data: snap}, func(b *strings.Builder) {
			writeLine(b, "cron", "running", strconv.FormatBool(snap.Running))
			writeLine(b, "cron", "last_run", formatTime(snap.LastRun))
			for _, j := range snap.Jobs {
				section := "job." + j.Name
				writeLine(b, section, "runs", strconv.FormatUint(j.RunCount, 10))
				writeLine(b, section, "failures", strconv.FormatUint(j.FailCount, 10))
				writeLine(b, section, "last_started", formatTime(j.LastStarted))
				writeLine(b, section, "last_duration", j.LastDuration.String())
				writeLine(b, section, "last_error", j.LastError)
			}
		})
	})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(time.RFC3339)
}
