package ops

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"

	"github.com/evan-idocoding/debugbar/cron"
)

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestStatusHandler(t *testing.T) {
	h := StatusHandler(
		WithStatusVersion("v9.9.9"),
		WithStatusProvider(func(context.Context) []Section {
			return []Section{{Name: "bar", Items: []KV{{Key: "position", Value: "top_left"}, {Key: "empty", Value: ""}}}}
		}),
		WithStatusProvider(nil),
	)

	t.Run("text", func(t *testing.T) {
		rr := get(t, h, "/status")
		if rr.Code != http.StatusOK {
			t.Fatalf("status=%d", rr.Code)
		}
		body := rr.Body.String()
		for _, want := range []string{"app\tversion\tv9.9.9\n", "build\tgo\tgo", "bar\tposition\ttop_left\n"} {
			if !strings.Contains(body, want) {
				t.Fatalf("missing %q in:\n%s", want, body)
			}
		}
		if strings.Contains(body, "bar\tempty") {
			t.Fatalf("empty values must be skipped")
		}
	})

	t.Run("json", func(t *testing.T) {
		rr := get(t, h, "/status?format=json")
		if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Fatalf("content-type=%q", ct)
		}
		var resp struct {
			OK   bool         `json:"ok"`
			Data StatusReport `json:"data"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if !resp.OK || resp.Data.Version != "v9.9.9" || len(resp.Data.Sections) != 1 {
			t.Fatalf("resp=%+v", resp)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/status", nil))
		if rr.Code != http.StatusMethodNotAllowed || rr.Header().Get("Allow") != "GET, HEAD" {
			t.Fatalf("status=%d allow=%q", rr.Code, rr.Header().Get("Allow"))
		}
	})
}

func TestPeakMemory_TracksMappedMemory(t *testing.T) {
	got := PeakMemory()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if got == 0 || got < ms.Sys/2 || got > ms.Sys*2 {
		t.Fatalf("PeakMemory=%d, MemStats.Sys=%d", got, ms.Sys)
	}
}

func TestRuntimeHandler(t *testing.T) {
	rr := get(t, RuntimeHandler(), "/runtime")
	body := rr.Body.String()
	for _, want := range []string{"go\tversion\tgo", "proc\tgoroutines\t", "mem\tsys_bytes\t"} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
	if PeakMemory() == 0 {
		t.Fatalf("PeakMemory must be positive")
	}

	head := httptest.NewRecorder()
	RuntimeHandler(WithRuntimeDefaultFormat(FormatJSON)).ServeHTTP(head, httptest.NewRequest(http.MethodHead, "/runtime", nil))
	if head.Code != http.StatusOK || head.Body.Len() != 0 {
		t.Fatalf("HEAD: status=%d body=%d", head.Code, head.Body.Len())
	}
}

func TestLogRing(t *testing.T) {
	ring := NewLogRing(3)
	var forwarded bytes.Buffer
	next := slog.NewTextHandler(&forwarded, &slog.HandlerOptions{Level: slog.LevelWarn})
	log := slog.New(ring.Handler(next, slog.LevelDebug))

	log.Debug("one")
	log.Info("two", "k", "v")
	log.With("req", "r1").WithGroup("http").Warn("three", "status", 500)
	log.Error("four", slog.Group("job", slog.String("name", "purge")))

	all := ring.Records(slog.LevelDebug, 0)
	var msgs []string
	for _, r := range all {
		msgs = append(msgs, r.Message)
	}
	if strings.Join(msgs, ",") != "four,three,two" {
		t.Fatalf("records newest first, bounded: %v", msgs)
	}
	three := all[1]
	if three.Level != "warn" || len(three.Attrs) != 2 ||
		three.Attrs[0] != (KV{Key: "req", Value: "r1"}) ||
		three.Attrs[1] != (KV{Key: "http.status", Value: "500"}) {
		t.Fatalf("attrs: %+v", three)
	}
	if all[0].Attrs[0] != (KV{Key: "job.name", Value: "purge"}) {
		t.Fatalf("group attrs: %+v", all[0].Attrs)
	}

	if got := ring.Records(slog.LevelWarn, 1); len(got) != 1 || got[0].Message != "four" {
		t.Fatalf("level+limit filter: %+v", got)
	}

	out := forwarded.String()
	if strings.Contains(out, "two") || !strings.Contains(out, "three") || !strings.Contains(out, "four") {
		t.Fatalf("forwarding must respect next's level:\n%s", out)
	}
}

func TestRecentLogHandler(t *testing.T) {
	ring := NewLogRing(10)
	log := slog.New(ring.Handler(nil, slog.LevelInfo))
	log.Info("cache flushed", "cache", "render")
	log.Error("cron failed", "err", "boom\nline2")

	body := get(t, RecentLogHandler(ring), "/log?level=error").Body.String()
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "\terror\tcron failed\terr=boom line2") {
		t.Fatalf("body:\n%s", body)
	}

	all := get(t, RecentLogHandler(ring), "/log?limit=5").Body.String()
	if strings.Count(all, "\n") != 2 {
		t.Fatalf("expected 2 lines:\n%s", all)
	}
}

func TestJobsHandler(t *testing.T) {
	runner := cron.NewRunner(cron.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	runner.MustAdd("purge", func(context.Context) error { return nil })
	runner.MustAdd("mail", func(context.Context) error { return errors.New("smtp down") })

	before := get(t, JobsHandler(runner), "/jobs").Body.String()
	if !strings.Contains(before, "cron\tlast_run\tnever\n") {
		t.Fatalf("before run:\n%s", before)
	}

	_ = runner.Run(context.Background())
	after := get(t, JobsHandler(runner), "/jobs").Body.String()
	for _, want := range []string{"job.purge\truns\t1\n", "job.mail\tfailures\t1\n", "job.mail\tlast_error\tsmtp down\n"} {
		if !strings.Contains(after, want) {
			t.Fatalf("missing %q in:\n%s", want, after)
		}
	}
}
