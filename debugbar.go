package debugbar

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/evan-idocoding/debugbar/access"
	"github.com/evan-idocoding/debugbar/admin"
	"github.com/evan-idocoding/debugbar/bar"
	"github.com/evan-idocoding/debugbar/cache"
	"github.com/evan-idocoding/debugbar/cron"
	"github.com/evan-idocoding/debugbar/csrf"
	"github.com/evan-idocoding/debugbar/httpx"
	"github.com/evan-idocoding/debugbar/ops"
	"github.com/evan-idocoding/debugbar/querylog"
	"github.com/evan-idocoding/debugbar/settings"
)

// DefaultPrefix is where the bar's own pages are served.
const DefaultPrefix = "/_debug_bar"

// DefaultBranchTTL is how long a discovered git branch is cached.
const DefaultBranchTTL = 10 * time.Second

// JobRunner runs the application's scheduled jobs on demand.
//
// *cron.Runner implements it.
type JobRunner interface {
	Run(ctx context.Context) error
	// LastRun is zero if jobs never ran.
	LastRun() time.Time
}

// CacheFlusher empties every application cache.
//
// *cache.Registry implements it.
type CacheFlusher interface {
	FlushAll(ctx context.Context) error
}

// Spec configures a Bar. The zero value is usable: every collaborator has a default.
type Spec struct {
	// Prefix of the bar's own pages. Default is DefaultPrefix.
	Prefix string

	// Logger is used for action failures, rejected tokens and panics.
	// Default is slog.Default().
	Logger *slog.Logger

	// Resolver determines the request principal.
	// Default reads the principal an outer middleware stored with access.WithPrincipal.
	Resolver access.Resolver

	// Settings persists the bar settings. Default is a MemoryStore holding
	// settings.Default(). An empty store disables the bar.
	Settings settings.Store

	// Tokens issues the anti-forgery tokens of the action links and the settings form.
	// Default is a random issuer (tokens do not survive a restart).
	Tokens *csrf.Issuer

	// Jobs runs on "run cron". Default is an empty *cron.Runner.
	Jobs JobRunner
	// Caches flushes on "flush caches". Default is an empty *cache.Registry.
	//
	// When Caches is a *cache.Registry the git branch cache is registered on it.
	Caches CacheFlusher

	// Alters run, in order, on every rendered item list. See also Bar.Alter.
	Alters []bar.Alter

	// Version is shown on the status item. Default is the main module version.
	Version string
	// GitHead is the HEAD file read for the branch item. Default is bar.DefaultGitHead.
	GitHead string
	// BranchTTL bounds how stale the branch item can be. Default is DefaultBranchTTL.
	BranchTTL time.Duration

	// Routes are the item link targets. Zero value means bar.DefaultRoutes(Prefix).
	Routes bar.Routes

	// LogRing backs the recent log page. When nil the page is not mounted.
	LogRing *ops.LogRing
	// StatusProviders add sections to the status page.
	StatusProviders []ops.StatusProvider

	// Clock overrides time.Now (tests).
	Clock func() time.Time
}

// Bar is the debug bar: middleware plus its admin pages.
//
// It is safe for concurrent use.
type Bar struct {
	prefix   string
	logger   *slog.Logger
	resolver access.Resolver
	store    settings.Store
	tokens   *csrf.Issuer
	jobs     JobRunner
	caches   CacheFlusher
	version  string
	gitHead  string
	branches *cache.Memory[string, string]
	routes   bar.Routes
	ring     *ops.LogRing
	status   []ops.StatusProvider
	now      func() time.Time

	mu     sync.RWMutex
	alters []bar.Alter

	handlerOnce sync.Once
	handler     http.Handler
}

// New assembles a Bar.
//
// Assembly errors are fail-fast and will panic.
func New(spec Spec) *Bar {
	b := &Bar{
		prefix:   normalizePrefixOrPanic(spec.Prefix),
		logger:   spec.Logger,
		resolver: spec.Resolver,
		store:    spec.Settings,
		tokens:   spec.Tokens,
		jobs:     spec.Jobs,
		caches:   spec.Caches,
		version:  spec.Version,
		gitHead:  spec.GitHead,
		routes:   spec.Routes,
		ring:     spec.LogRing,
		status:   append([]ops.StatusProvider(nil), spec.StatusProviders...),
		now:      spec.Clock,
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.resolver == nil {
		b.resolver = access.ResolverFunc(func(r *http.Request) access.Principal {
			return access.FromContext(r.Context())
		})
	}
	if b.store == nil {
		b.store = settings.NewMemoryStore(settings.Default())
	}
	if b.tokens == nil {
		t, err := csrf.NewRandom()
		if err != nil {
			panic("debugbar: " + err.Error())
		}
		b.tokens = t
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.jobs == nil {
		b.jobs = cron.NewRunner(cron.WithLogger(b.logger), cron.WithClock(b.now))
	}
	if b.caches == nil {
		b.caches = cache.NewRegistry(cache.WithLogger(b.logger))
	}
	if b.version == "" {
		b.version = ops.Version()
	}
	if b.gitHead == "" {
		b.gitHead = bar.DefaultGitHead
	}
	ttl := spec.BranchTTL
	if ttl <= 0 {
		ttl = DefaultBranchTTL
	}
	b.branches = cache.NewMemory[string, string](ttl)
	if reg, ok := b.caches.(*cache.Registry); ok {
		if err := reg.Add("debugbar.git-branch", b.branches.Flush); err != nil {
			b.logger.Debug("debugbar: branch cache not registered", "err", err)
		}
	}
	if b.routes.Front == "" {
		b.routes = bar.DefaultRoutes(b.prefix)
	}
	for _, fn := range spec.Alters {
		if fn != nil {
			b.alters = append(b.alters, fn)
		}
	}
	return b
}

// Alter registers an alter hook. Hooks run in registration order, after Spec.Alters.
func (b *Bar) Alter(fn bar.Alter) {
	if fn == nil {
		panic("debugbar: nil alter hook")
	}
	b.mu.Lock()
	b.alters = append(b.alters, fn)
	b.mu.Unlock()
}

func (b *Bar) alterHooks() []bar.Alter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]bar.Alter(nil), b.alters...)
}

// Prefix returns the mount prefix of the bar's pages.
func (b *Bar) Prefix() string { return b.prefix }

// Settings returns the settings store.
func (b *Bar) Settings() settings.Store { return b.store }

// Tokens returns the anti-forgery token issuer.
func (b *Bar) Tokens() *csrf.Issuer { return b.tokens }

// Jobs returns the job runner.
func (b *Bar) Jobs() JobRunner { return b.jobs }

// Caches returns the cache flusher.
func (b *Bar) Caches() CacheFlusher { return b.caches }

// Middleware returns the bar middleware:
//
//	query log + timer → request id → recover → principal → action interceptor → injector
func (b *Bar) Middleware() httpx.Middleware {
	return httpx.Chain(
		querylog.Start(),
		b.timer,
		httpx.RequestID(),
		httpx.Recover(httpx.WithRecoverLogger(b.logger)),
		b.resolve,
		b.intercept,
		b.inject,
	).Middleware()
}

// Handler returns the handler of the bar's pages. It expects unstripped paths under Prefix.
//
// It does not resolve the principal by itself; serve it behind Middleware (Mount does).
func (b *Bar) Handler() http.Handler {
	b.handlerOnce.Do(func() {
		opts := []admin.Option{
			admin.WithLogger(b.logger),
			admin.EnableIndex(admin.IndexSpec{Guard: admin.Any(access.ViewReports, access.Administer)}),
			admin.EnableStatus(admin.StatusSpec{
				Guard:     admin.Require(access.ViewReports),
				Version:   b.version,
				Providers: b.statusProviders(),
			}),
			admin.EnableRuntime(admin.RuntimeSpec{Guard: admin.Require(access.Administer)}),
			admin.EnableSettings(admin.SettingsSpec{
				Guard: admin.Require(access.Administer),
				Form:  settings.NewForm(b.store, b.tokens, settings.WithFormLogger(b.logger)),
			}),
			admin.EnableAssets(admin.AssetsSpec{}),
		}
		if b.ring != nil {
			opts = append(opts, admin.EnableRecentLog(admin.RecentLogSpec{
				Guard: admin.Require(access.ViewReports),
				Ring:  b.ring,
			}))
		}
		if runner, ok := b.jobs.(*cron.Runner); ok {
			opts = append(opts, admin.EnableJobs(admin.JobsSpec{
				Guard:  admin.Require(access.Administer),
				Runner: runner,
			}))
		}
		b.handler = admin.New(b.prefix, opts...)
	})
	return b.handler
}

// statusProviders prepends the bar's own section to the configured providers.
func (b *Bar) statusProviders() []ops.StatusProvider {
	own := func(ctx context.Context) []ops.Section {
		s, ok, err := b.store.Load()
		items := []ops.KV{{Key: "enabled", Value: boolString(ok && err == nil)}}
		if ok && err == nil {
			items = append(items,
				ops.KV{Key: "float", Value: boolString(s.Float)},
				ops.KV{Key: "position", Value: string(s.Position)},
				ops.KV{Key: "appearance", Value: string(s.Appearance)},
			)
		}
		if branch := b.branch(); branch != "" {
			items = append(items, ops.KV{Key: "git_branch", Value: branch})
		}
		last := "never"
		if t := b.jobs.LastRun(); !t.IsZero() {
			last = t.UTC().Format(time.RFC3339)
		}
		items = append(items, ops.KV{Key: "cron_last_run", Value: last})
		return []ops.Section{{Name: "debug_bar", Items: items}}
	}
	return append([]ops.StatusProvider{own}, b.status...)
}

// Mount routes requests under Prefix to Handler and everything else to app, both behind
// Middleware.
func (b *Bar) Mount(app http.Handler) http.Handler {
	if app == nil {
		panic("debugbar: Mount: nil app handler")
	}
	return b.Middleware()(mountPrefix(b.prefix, b.Handler(), app))
}

func (b *Bar) branch() string {
	if v, ok := b.branches.Get(b.gitHead); ok {
		return v
	}
	v := bar.GitBranch(b.gitHead)
	b.branches.Set(b.gitHead, v)
	return v
}

type startKey struct{}

// timer records when the outermost middleware saw the request.
func (b *Bar) timer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Value(startKey{}).(time.Time); ok {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), startKey{}, b.now())))
	})
}

func startFromContext(ctx context.Context) time.Time {
	t, _ := ctx.Value(startKey{}).(time.Time)
	return t
}

func (b *Bar) resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := b.resolver.Resolve(r)
		next.ServeHTTP(w, r.WithContext(access.WithPrincipal(r.Context(), p)))
	})
}

// mountPrefix sends requests under prefix to subtree (paths unchanged) and the rest to
// fallback. The bare prefix redirects to prefix + "/".
func mountPrefix(prefix string, subtree, fallback http.Handler) http.Handler {
	base := strings.TrimSuffix(prefix, "/")
	dir := base + "/"
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == base {
			target := dir
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)
			return
		}
		if strings.HasPrefix(path, dir) {
			subtree.ServeHTTP(w, r)
			return
		}
		fallback.ServeHTTP(w, r)
	})
}

func normalizePrefixOrPanic(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return DefaultPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		panic("debugbar: invalid prefix (must start with '/'): " + prefix)
	}
	if strings.ContainsAny(prefix, " \t\r\n?#{}") {
		panic("debugbar: invalid prefix (contains whitespace, ?# or a pattern): " + prefix)
	}
	if strings.Contains(prefix, "//") {
		panic("debugbar: invalid prefix (contains //): " + prefix)
	}
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		panic("debugbar: invalid prefix: /")
	}
	return prefix
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
