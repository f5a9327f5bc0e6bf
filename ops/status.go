package ops

import (
	"context"
	"net/http"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
)

// StatusProvider contributes sections to the status report.
type StatusProvider func(ctx context.Context) []Section

type statusConfig struct {
	format    Format
	version   string
	providers []StatusProvider
}

// StatusOption configures StatusHandler.
type StatusOption func(*statusConfig)

// WithStatusDefaultFormat sets the default response format. Default is FormatText.
func WithStatusDefaultFormat(f Format) StatusOption {
	return func(c *statusConfig) { c.format = f }
}

// WithStatusVersion overrides the application version shown in the report.
//
// By default the main module version from the build info is used.
func WithStatusVersion(v string) StatusOption {
	return func(c *statusConfig) { c.version = v }
}

// WithStatusProvider appends a section provider. Providers run in registration order.
func WithStatusProvider(p StatusProvider) StatusOption {
	return func(c *statusConfig) {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
}

// StatusReport is the JSON shape of the status page.
type StatusReport struct {
	Version  string    `json:"version"`
	Build    BuildInfo `json:"build"`
	Sections []Section `json:"sections,omitempty"`
}

// BuildInfo is the subset of debug.ReadBuildInfo shown on the status page.
type BuildInfo struct {
	Path        string `json:"path,omitempty"`
	Module      string `json:"module,omitempty"`
	GoVersion   string `json:"go_version"`
	OSArch      string `json:"os_arch"`
	VCS         string `json:"vcs,omitempty"`
	VCSRevision string `json:"vcs_revision,omitempty"`
	VCSTime     string `json:"vcs_time,omitempty"`
	VCSModified *bool  `json:"vcs_modified,omitempty"`
}

// StatusHandler returns the status report handler.
//
// GET/HEAD only; other methods return 405.
func StatusHandler(opts ...StatusOption) http.Handler {
	cfg := statusConfig{format: FormatText}
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
		rep := StatusReport{Build: ReadBuildInfo(), Version: cfg.version}
		if rep.Version == "" {
			rep.Version = Version()
		}
		for _, p := range cfg.providers {
			rep.Sections = append(rep.Sections, p(r.Context())...)
		}
		write(w, r, format, http.StatusOK, response{OK: true, Data: rep}, func(b *strings.Builder) {
			renderStatusText(b, rep)
		})
	})
}

func renderStatusText(b *strings.Builder, rep StatusReport) {
	writeLine(b, "app", "version", rep.Version)
	writeLine(b, "build", "path", rep.Build.Path)
	writeLine(b, "build", "module", rep.Build.Module)
	writeLine(b, "build", "go", rep.Build.GoVersion)
	writeLine(b, "build", "osarch", rep.Build.OSArch)
	writeLine(b, "build", "vcs", rep.Build.VCS)
	writeLine(b, "build", "vcs.revision", rep.Build.VCSRevision)
	writeLine(b, "build", "vcs.time", rep.Build.VCSTime)
	if rep.Build.VCSModified != nil {
		writeLine(b, "build", "vcs.modified", strconv.FormatBool(*rep.Build.VCSModified))
	}
	writeSections(b, rep.Sections)
}

var (
	buildInfoOnce   sync.Once
	cachedBuildInfo BuildInfo
)

// ReadBuildInfo returns build metadata of the running binary. It is read once per process.
func ReadBuildInfo() BuildInfo {
	buildInfoOnce.Do(func() {
		cachedBuildInfo = BuildInfo{
			GoVersion: runtime.Version(),
			OSArch:    runtime.GOOS + "/" + runtime.GOARCH,
		}
		bi, ok := debug.ReadBuildInfo()
		if !ok || bi == nil {
			return
		}
		cachedBuildInfo.Path = bi.Path
		cachedBuildInfo.Module = bi.Main.Path
		if bi.Main.Version != "" {
			cachedBuildInfo.Module += " " + bi.Main.Version
		}
		for _, kv := range bi.Settings {
			switch kv.Key {
			case "vcs":
				cachedBuildInfo.VCS = kv.Value
			case "vcs.revision":
				cachedBuildInfo.VCSRevision = kv.Value
			case "vcs.time":
				cachedBuildInfo.VCSTime = kv.Value
			case "vcs.modified":
				if v, err := strconv.ParseBool(kv.Value); err == nil {
					cachedBuildInfo.VCSModified = &v
				}
			}
		}
	})
	return cachedBuildInfo
}

// Version returns a short application version: the main module version, else the short
// VCS revision, else "devel".
func Version() string {
	bi := ReadBuildInfo()
	if _, v, ok := strings.Cut(bi.Module, " "); ok && v != "(devel)" {
		return v
	}
	if len(bi.VCSRevision) >= 7 {
		return bi.VCSRevision[:7]
	}
	return "devel"
}
