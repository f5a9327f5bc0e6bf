package admin

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/evan-idocoding/debugbar/access"
	"github.com/evan-idocoding/debugbar/cron"
	"github.com/evan-idocoding/debugbar/ops"
)

func assertPanics(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	fn()
}

func as(p access.Principal, method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	return r.WithContext(access.WithPrincipal(r.Context(), p))
}

var (
	admin    = access.Principal{ID: "1", Name: "admin", Capabilities: []access.Capability{access.ViewBar, access.Administer, access.ViewReports}}
	reporter = access.Principal{ID: "2", Name: "rep", Capabilities: []access.Capability{access.ViewBar, access.ViewReports}}
	nobody   = access.Principal{}
)

func TestNilGuardPanics(t *testing.T) {
	assertPanics(t, func() {
		_ = New("/_debug_bar", EnableRuntime(RuntimeSpec{}))
	})
}

func TestDuplicatePathPanics(t *testing.T) {
	assertPanics(t, func() {
		_ = New("/_debug_bar",
			EnableRuntime(RuntimeSpec{Guard: AllowAll(), Path: "/x"}),
			EnableStatus(StatusSpec{Guard: AllowAll(), Path: "/x"}),
		)
	})
}

func TestInvalidPathPanics(t *testing.T) {
	for _, p := range []string{"x", "/a b", "/a?b", "/a//b", "/{id}"} {
		p := p
		t.Run(p, func(t *testing.T) {
			assertPanics(t, func() {
				_ = New("", EnableRuntime(RuntimeSpec{Guard: AllowAll(), Path: p}))
			})
		})
	}
}

func TestGuardsByCapability(t *testing.T) {
	ring := ops.NewLogRing(4)
	h := New("/_debug_bar",
		EnableStatus(StatusSpec{Guard: Require(access.ViewReports), Version: "v1"}),
		EnableRuntime(RuntimeSpec{Guard: Require(access.Administer)}),
		EnableRecentLog(RecentLogSpec{Guard: Require(access.ViewReports), Ring: ring}),
		EnableJobs(JobsSpec{Guard: Any(access.Administer, access.ViewReports), Runner: cron.NewRunner()}),
		EnableAssets(AssetsSpec{}),
	)

	cases := []struct {
		who  access.Principal
		path string
		want int
	}{
		{admin, "/_debug_bar/status", http.StatusOK},
		{reporter, "/_debug_bar/status", http.StatusOK},
		{nobody, "/_debug_bar/status", http.StatusForbidden},
		{admin, "/_debug_bar/runtime", http.StatusOK},
		{reporter, "/_debug_bar/runtime", http.StatusForbidden},
		{reporter, "/_debug_bar/log", http.StatusOK},
		{reporter, "/_debug_bar/jobs", http.StatusOK},
		{nobody, "/_debug_bar/jobs", http.StatusForbidden},
		{nobody, "/_debug_bar/assets/debug_bar.js", http.StatusOK},
		{admin, "/_debug_bar/missing", http.StatusNotFound},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, as(tc.who, http.MethodGet, tc.path))
		if rr.Code != tc.want {
			t.Fatalf("%s %s: status=%d want %d", tc.who.Name, tc.path, rr.Code, tc.want)
		}
	}
}

func TestIndexListsOnlyAllowedEntries(t *testing.T) {
	h := New("/_debug_bar",
		WithLogger(slog.Default()),
		EnableIndex(IndexSpec{Guard: Require(access.ViewBar)}),
		EnableStatus(StatusSpec{Guard: Require(access.ViewReports)}),
		EnableRuntime(RuntimeSpec{Guard: Require(access.Administer)}),
		EnableAssets(AssetsSpec{}),
	)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, as(reporter, http.MethodGet, "/_debug_bar/"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `<a href="/_debug_bar/status">Status report</a>`) {
		t.Fatalf("status link missing:\n%s", body)
	}
	if strings.Contains(body, "/_debug_bar/runtime") || strings.Contains(body, "/assets/") {
		t.Fatalf("index must hide forbidden and unlisted entries:\n%s", body)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, as(nobody, http.MethodGet, "/_debug_bar/"))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("anonymous index: status=%d", rr.Code)
	}
}

func TestEnableIndexTwicePanics(t *testing.T) {
	assertPanics(t, func() {
		_ = New("", EnableIndex(IndexSpec{Guard: AllowAll()}), EnableIndex(IndexSpec{Guard: AllowAll()}))
	})
}
