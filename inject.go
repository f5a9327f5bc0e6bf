package debugbar

import (
	"mime"
	"net/http"
	"runtime"
	"strings"

	"github.com/evan-idocoding/debugbar/access"
	"github.com/evan-idocoding/debugbar/bar"
	"github.com/evan-idocoding/debugbar/httpx"
	"github.com/evan-idocoding/debugbar/ops"
	"github.com/evan-idocoding/debugbar/querylog"
	"github.com/evan-idocoding/debugbar/settings"
)

// inject buffers HTML responses for principals allowed to see the bar and splices the
// bar markup in before the last </body>.
func (b *Bar) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if httpx.IsXHR(r) {
			next.ServeHTTP(w, r)
			return
		}
		p := access.FromContext(r.Context())
		if !p.Has(access.ViewBar) {
			next.ServeHTTP(w, r)
			return
		}
		s, ok, err := b.store.Load()
		if err != nil {
			b.logger.Warn("debugbar: load settings", "err", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		env := b.env(r, p, s)
		c := httpx.NewCapture(w)
		next.ServeHTTP(c, r)

		body := c.Body()
		if !injectable(r, c, body) {
			_ = c.Commit(body)
			return
		}
		fragment, err := b.render(r, env)
		if err != nil {
			rid, _ := httpx.RequestIDFromRequest(r)
			b.logger.Error("debugbar: render", "err", err, "request_id", rid)
			_ = c.Commit(body)
			return
		}
		out, _ := bar.Inject(body, fragment)
		_ = c.Commit(out)
	})
}

// env builds the per-request environment. Now, Queries and PeakMemory are filled in by
// render once the application handler returned.
func (b *Bar) env(r *http.Request, p access.Principal, s settings.Settings) *bar.Env {
	start := startFromContext(r.Context())
	if start.IsZero() {
		start = b.now()
	}
	tokens := b.tokens
	session := p.Session
	return &bar.Env{
		Request:        r,
		Principal:      p,
		Settings:       s,
		Start:          start,
		Version:        b.version,
		RuntimeVersion: runtime.Version(),
		Branch:         b.branch(),
		Routes:         b.routes,
		IconBase:       b.prefix + "/assets/icons",
		Token:          func(action string) string { return tokens.Token(session, action) },
		Printer:        bar.NewPrinter(r.Header.Get("Accept-Language")),
	}
}

func (b *Bar) render(r *http.Request, env *bar.Env) ([]byte, error) {
	env.Now = b.now()
	env.LastCron = b.jobs.LastRun()
	env.PeakMemory = ops.PeakMemory()
	if l, ok := querylog.FromContext(r.Context()); ok {
		env.Queries = l.Count()
	}

	items := bar.DefaultItems(env)
	items.Set(bar.HideItemID, bar.HideItem(env))
	for _, fn := range b.alterHooks() {
		fn(env, items)
	}
	return bar.Render(bar.View{
		Links:     bar.Finalize(env, items),
		Class:     bar.Classes(env),
		AssetBase: b.prefix + "/assets",
	})
}

// injectable reports whether the captured response is a complete, uncompressed HTML page.
func injectable(r *http.Request, c *httpx.Capture, body []byte) bool {
	if c.Passthrough() || r.Method == http.MethodHead {
		return false
	}
	switch status := c.Status(); {
	case status == 0, status < 200:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	h := c.Header()
	if enc := h.Get("Content-Encoding"); enc != "" && !strings.EqualFold(enc, "identity") {
		return false
	}
	ct := h.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(body)
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}
