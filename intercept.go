package debugbar

import (
	"context"
	"net/http"

	"github.com/evan-idocoding/debugbar/access"
	"github.com/evan-idocoding/debugbar/bar"
	"github.com/evan-idocoding/debugbar/httpx"
	"github.com/evan-idocoding/debugbar/notice"
)

// Notices queued by the action interceptor.
const (
	NoticeCronDone   = "Cron ran successfully."
	NoticeCronFailed = "Cron run failed."
	NoticeCacheDone  = "Caches cleared."
	NoticeCacheFail  = "Cache flush failed."
)

type action struct {
	flag   string
	run    func(ctx context.Context) error
	done   string
	failed string
}

func (b *Bar) actions() []action {
	return []action{
		{flag: bar.RunCronFlag, run: b.jobs.Run, done: NoticeCronDone, failed: NoticeCronFailed},
		{flag: bar.FlushCacheFlag, run: b.caches.FlushAll, done: NoticeCacheDone, failed: NoticeCacheFail},
	}
}

// intercept handles the admin actions of the bar links. At most one action runs per
// request; run cron wins when both flags are set.
func (b *Bar) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for _, a := range b.actions() {
			if !truthy(q.Get(a.flag)) {
				continue
			}
			if !b.allowed(r, a.flag, q.Get(bar.TokenParam)) {
				break
			}
			b.perform(w, r, a)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowed checks capability and token. Only the first requested action is considered.
func (b *Bar) allowed(r *http.Request, flag, token string) bool {
	p := access.FromContext(r.Context())
	if !p.Has(access.Administer) {
		return false
	}
	if token == "" || !b.tokens.Valid(p.Session, flag, token) {
		rid, _ := httpx.RequestIDFromRequest(r)
		b.logger.Warn("debugbar: rejected action token",
			"action", flag,
			"principal", p.ID,
			"path", r.URL.Path,
			"request_id", rid,
		)
		return false
	}
	return true
}

func (b *Bar) perform(w http.ResponseWriter, r *http.Request, a action) {
	if err := a.run(r.Context()); err != nil {
		rid, _ := httpx.RequestIDFromRequest(r)
		b.logger.Error("debugbar: action failed",
			"action", a.flag,
			"err", err,
			"request_id", rid,
		)
		notice.Add(w, r, a.failed)
	} else {
		notice.Add(w, r, a.done)
	}
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, bar.CurrentURL(r), http.StatusFound)
}

// truthy treats any non-empty value other than "0" as set.
func truthy(v string) bool {
	return v != "" && v != "0"
}
