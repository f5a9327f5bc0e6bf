package ops

import (
	"net/http"
	"os"
	"runtime"
	"runtime/metrics"
	"strconv"
	"strings"
	"time"
)

type runtimeConfig struct {
	format Format
}

// RuntimeOption configures RuntimeHandler.
type RuntimeOption func(*runtimeConfig)

// WithRuntimeDefaultFormat sets the default response format. Default is FormatText.
func WithRuntimeDefaultFormat(f Format) RuntimeOption {
	return func(c *runtimeConfig) { c.format = f }
}

// startTime is captured once at package init time.
var startTime = time.Now()

// RuntimeHandler returns the Go runtime overview handler.
//
// GET/HEAD only; other methods return 405.
func RuntimeHandler(opts ...RuntimeOption) http.Handler {
	cfg := runtimeConfig{format: FormatText}
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
		snap := Runtime()
		write(w, r, format, http.StatusOK, response{OK: true, Data: snap}, func(b *strings.Builder) {
			renderRuntimeText(b, snap)
		})
	})
}

// RuntimeSnapshot is a point-in-time runtime overview.
type RuntimeSnapshot struct {
	Now       time.Time `json:"now"`
	StartTime time.Time `json:"start_time"`
	// Uptime is encoded as an integer number of nanoseconds in JSON.
	Uptime time.Duration `json:"uptime"`
	PID    int           `json:"pid"`

	GoVersion  string `json:"go_version"`
	OSArch     string `json:"os_arch"`
	NumCPU     int    `json:"num_cpu"`
	GOMAXPROCS int    `json:"gomaxprocs"`
	Goroutines int    `json:"goroutines"`

	SysBytes       uint64 `json:"sys_bytes"`
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	HeapInuseBytes uint64 `json:"heap_inuse_bytes"`
	StackInuse     uint64 `json:"stack_inuse_bytes"`
	TotalAlloc     uint64 `json:"total_alloc_bytes"`

	NumGC      uint32        `json:"num_gc"`
	LastPause  time.Duration `json:"last_pause"`
	PauseTotal time.Duration `json:"pause_total"`
	NextGC     uint64        `json:"next_gc_bytes"`
}

// Runtime returns a runtime snapshot.
func Runtime() RuntimeSnapshot {
	now := time.Now()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	out := RuntimeSnapshot{
		Now:        now,
		StartTime:  startTime,
		Uptime:     now.Sub(startTime),
		PID:        os.Getpid(),
		GoVersion:  runtime.Version(),
		OSArch:     runtime.GOOS + "/" + runtime.GOARCH,
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		Goroutines: runtime.NumGoroutine(),

		SysBytes:       ms.Sys,
		HeapAllocBytes: ms.HeapAlloc,
		HeapInuseBytes: ms.HeapInuse,
		StackInuse:     ms.StackInuse,
		TotalAlloc:     ms.TotalAlloc,

		NumGC:      ms.NumGC,
		PauseTotal: time.Duration(ms.PauseTotalNs),
		NextGC:     ms.NextGC,
	}
	if ms.NumGC > 0 {
		// MemStats keeps a circular buffer of the last 256 pauses.
		out.LastPause = time.Duration(ms.PauseNs[(ms.NumGC+255)%256])
	}
	return out
}

// totalMemoryMetric is the runtime/metrics counterpart of MemStats.Sys.
const totalMemoryMetric = "/memory/classes/total:bytes"

// PeakMemory returns the bytes of memory mapped by the Go runtime.
// It reads runtime/metrics and does not stop the world.
func PeakMemory() uint64 {
	sample := []metrics.Sample{{Name: totalMemoryMetric}}
	metrics.Read(sample)
	if sample[0].Value.Kind() != metrics.KindUint64 {
		return 0
	}
	return sample[0].Value.Uint64()
}

func renderRuntimeText(b *strings.Builder, s RuntimeSnapshot) {
	writeLine(b, "time", "start", s.StartTime.Format(time.RFC3339Nano))
	writeLine(b, "time", "now", s.Now.Format(time.RFC3339Nano))
	writeLine(b, "time", "uptime", s.Uptime.String())

	writeLine(b, "proc", "pid", strconv.Itoa(s.PID))
	writeLine(b, "proc", "num_cpu", strconv.Itoa(s.NumCPU))
	writeLine(b, "proc", "gomaxprocs", strconv.Itoa(s.GOMAXPROCS))
	writeLine(b, "proc", "goroutines", strconv.Itoa(s.Goroutines))

	writeLine(b, "go", "version", s.GoVersion)
	writeLine(b, "go", "osarch", s.OSArch)

	writeLine(b, "mem", "sys_bytes", strconv.FormatUint(s.SysBytes, 10))
	writeLine(b, "mem", "heap_alloc_bytes", strconv.FormatUint(s.HeapAllocBytes, 10))
	writeLine(b, "mem", "heap_inuse_bytes", strconv.FormatUint(s.HeapInuseBytes, 10))
	writeLine(b, "mem", "stack_inuse_bytes", strconv.FormatUint(s.StackInuse, 10))
	writeLine(b, "mem", "total_alloc_bytes", strconv.FormatUint(s.TotalAlloc, 10))

	writeLine(b, "gc", "num_gc", strconv.FormatUint(uint64(s.NumGC), 10))
	writeLine(b, "gc", "last_pause", s.LastPause.String())
	writeLine(b, "gc", "pause_total", s.PauseTotal.String())
	writeLine(b, "gc", "next_gc_bytes", strconv.FormatUint(s.NextGC, 10))
}
