package admin

import (
	"net/http"
	"strings"

	"github.com/evan-idocoding/debugbar/bar"
	"github.com/evan-idocoding/debugbar/cron"
	"github.com/evan-idocoding/debugbar/ops"
)

// --- status report ---

type StatusSpec struct {
	Guard Guard
	Path  string // default "/status"

	// Version overrides the application version (default: build info).
	Version   string
	Providers []ops.StatusProvider
}

func EnableStatus(spec StatusSpec) Option {
	return func(b *Builder) {
		opts := []ops.StatusOption{ops.WithStatusVersion(spec.Version)}
		for _, p := range spec.Providers {
			opts = append(opts, ops.WithStatusProvider(p))
		}
		b.mount("status", "Status report", resolvePath(spec.Path, "/status"), spec.Guard, ops.StatusHandler(opts...))
	}
}

// --- runtime ---

type RuntimeSpec struct {
	Guard Guard
	Path  string // default "/runtime"
}

func EnableRuntime(spec RuntimeSpec) Option {
	return func(b *Builder) {
		b.mount("runtime", "Go runtime", resolvePath(spec.Path, "/runtime"), spec.Guard, ops.RuntimeHandler())
	}
}

// --- recent log ---

type RecentLogSpec struct {
	Guard Guard
	Path  string // default "/log"
	Ring  *ops.LogRing
	// Limit is the default number of records (default 50).
	Limit int
}

func EnableRecentLog(spec RecentLogSpec) Option {
	return func(b *Builder) {
		if spec.Ring == nil {
			panic("admin: log: nil Ring")
		}
		var opts []ops.RecentLogOption
		if spec.Limit > 0 {
			opts = append(opts, ops.WithRecentLogLimit(spec.Limit))
		}
		b.mount("log", "Recent log messages", resolvePath(spec.Path, "/log"), spec.Guard, ops.RecentLogHandler(spec.Ring, opts...))
	}
}

// --- jobs ---

type JobsSpec struct {
	Guard  Guard
	Path   string // default "/jobs"
	Runner *cron.Runner
}

func EnableJobs(spec JobsSpec) Option {
	return func(b *Builder) {
		if spec.Runner == nil {
			panic("admin: jobs: nil Runner")
		}
		b.mount("jobs", "Scheduled jobs", resolvePath(spec.Path, "/jobs"), spec.Guard, ops.JobsHandler(spec.Runner))
	}
}

// --- settings form ---

type SettingsSpec struct {
	Guard Guard
	Path  string // default "/settings"
	// Form is usually a *settings.Form.
	Form http.Handler
}

func EnableSettings(spec SettingsSpec) Option {
	return func(b *Builder) {
		b.mount("settings", "Settings", resolvePath(spec.Path, "/settings"), spec.Guard, spec.Form)
	}
}

// --- assets ---

// AssetsSpec mounts the embedded stylesheet, script and icons. Guard defaults to AllowAll:
// every page that renders the bar needs them.
type AssetsSpec struct {
	Guard Guard
	Path  string // default "/assets/"
}

func EnableAssets(spec AssetsSpec) Option {
	return func(b *Builder) {
		if spec.Guard == nil {
			spec.Guard = AllowAll()
		}
		path := resolvePath(spec.Path, "/assets/")
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}
		// The handler sees the path after the admin prefix was stripped.
		b.mount("assets", "", path, spec.Guard, bar.AssetHandler(strings.TrimSuffix(path, "/")))
	}
}
