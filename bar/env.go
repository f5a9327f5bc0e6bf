package bar

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/message"

	"github.com/evan-idocoding/debugbar/access"
	"github.com/evan-idocoding/debugbar/settings"
)

// Query parameters recognized by the action interceptor.
const (
	RunCronFlag    = "debug-bar-run-cron"
	FlushCacheFlag = "debug-bar-flush-cache"
	TokenParam     = "token"

	// LogoutAction names the token carried by the log out link.
	LogoutAction = "debug-bar-logout"
)

// Routes are the link targets used by the default items.
type Routes struct {
	Front        string
	StatusReport string
	RuntimeInfo  string
	RecentLog    string
	Login        string
	Logout       string
	// Profile returns the profile URL of a user id.
	Profile func(id string) string
}

// DefaultRoutes returns routes for an admin subtree mounted at prefix.
func DefaultRoutes(prefix string) Routes {
	prefix = strings.TrimRight(prefix, "/")
	return Routes{
		Front:        "/",
		StatusReport: prefix + "/status",
		RuntimeInfo:  prefix + "/runtime",
		RecentLog:    prefix + "/log",
		Login:        "/login",
		Logout:       "/logout",
		Profile:      func(id string) string { return "/user/" + url.PathEscape(id) },
	}
}

// Env is everything the bar needs to know about one request.
//
// It is computed once when handling starts (Now is set when the response is finalized)
// and passed explicitly to the item builder and alter hooks.
type Env struct {
	Request   *http.Request
	Principal access.Principal
	Settings  settings.Settings

	// Start is when the outermost middleware saw the request; Now is when the bar is built.
	Start time.Time
	Now   time.Time

	Queries int
	// PeakMemory is in bytes.
	PeakMemory uint64

	Version        string
	RuntimeVersion string
	Branch         string
	// LastCron is zero if jobs never ran.
	LastCron time.Time

	Routes   Routes
	IconBase string
	// Token returns the anti-forgery token of an action for the current session.
	Token func(action string) string
	// Printer localizes labels and numbers. Nil means English.
	Printer *message.Printer
}

// T formats a catalog message with the env printer.
func (e *Env) T(key string, args ...any) string {
	p := e.Printer
	if p == nil {
		p = englishPrinter
	}
	return p.Sprintf(key, args...)
}

// Elapsed returns Now - Start, or 0 when either is unset.
func (e *Env) Elapsed() time.Duration {
	if e.Start.IsZero() || e.Now.IsZero() {
		return 0
	}
	return e.Now.Sub(e.Start)
}

func (e *Env) token(action string) string {
	if e.Token == nil {
		return ""
	}
	return e.Token(action)
}

// CurrentURL returns the request path and query with the action flags and token removed.
// The result is always a path on the current host.
func CurrentURL(r *http.Request) string {
	if r == nil || r.URL == nil {
		return "/"
	}
	// A single leading slash keeps the result on this host: "//evil.example/x" would
	// otherwise read as a protocol-relative URL.
	path := "/" + strings.TrimLeft(r.URL.EscapedPath(), `/\`)
	q := r.URL.Query()
	q.Del(RunCronFlag)
	q.Del(FlushCacheFlag)
	q.Del(TokenParam)
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
