package bar

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/evan-idocoding/debugbar/access"
	"github.com/evan-idocoding/debugbar/settings"
)

// Ids of the default items.
const (
	ItemHome          = "debug_bar_item_home"
	ItemStatusReport  = "debug_bar_item_status_report"
	ItemExecutionTime = "debug_bar_item_execution_time"
	ItemMemoryUsage   = "debug_bar_item_memory_usage"
	ItemDBQueries     = "debug_bar_item_db_queries"
	ItemRuntime       = "debug_bar_item_runtime"
	ItemCron          = "debug_bar_item_cron"
	ItemGit           = "debug_bar_item_git"
	ItemWatchdog      = "debug_bar_item_watchdog"
	ItemCache         = "debug_bar_item_cache"
	ItemLogin         = "debug_bar_item_login"
	ItemUser          = "debug_bar_item_user"
	ItemLogout        = "debug_bar_item_logout"

	HideItemID = "debug_bar-link-hide"
)

// Hide item weights: the close control sits at the outer edge of the bar.
const (
	HideWeightFirst = -1000
	HideWeightLast  = 1000
)

// DefaultItems builds the fixed item set for env.
func DefaultItems(env *Env) *Items {
	p := env.Principal
	r := env.Routes
	if r.Front == "" {
		r = DefaultRoutes("/_debug_bar")
	}
	icon := func(name string) string {
		if env.IconBase == "" {
			return ""
		}
		return strings.TrimRight(env.IconBase, "/") + "/" + name + ".svg"
	}
	tooltip := func(s string) map[string]string { return map[string]string{"title": s} }
	current := CurrentURL(env.Request)

	items := NewItems()
	items.Set(ItemHome, Item{
		Title:      Text(env.T("Home")),
		URL:        r.Front,
		IconPath:   icon("home"),
		Attributes: tooltip(env.T("Front page")),
		Weight:     10,
		Access:     true,
	})
	items.Set(ItemStatusReport, Item{
		Title:      Text(env.Version),
		URL:        r.StatusReport,
		IconPath:   icon("status"),
		Attributes: tooltip(env.T("View status report")),
		Weight:     20,
		Access:     p.Has(access.ViewReports),
	})
	items.Set(ItemExecutionTime, Item{
		Title:      Text(strconv.FormatFloat(float64(env.Elapsed().Microseconds())/1000, 'f', 1, 64) + " ms"),
		IconPath:   icon("time"),
		Attributes: tooltip(env.T("Execution time")),
		Weight:     30,
		Access:     true,
	})
	items.Set(ItemMemoryUsage, Item{
		Title:      Text(strconv.FormatFloat(float64(env.PeakMemory)/1024/1024, 'f', 2, 64) + " MB"),
		IconPath:   icon("memory"),
		Attributes: tooltip(env.T("Peak memory usage")),
		Weight:     40,
		Access:     true,
	})
	items.Set(ItemDBQueries, Item{
		Title:      Text(strconv.Itoa(env.Queries)),
		IconPath:   icon("db-queries"),
		Attributes: tooltip(env.T("DB queries")),
		Weight:     50,
		Access:     true,
	})
	items.Set(ItemRuntime, Item{
		Title:      Text(shortRuntimeVersion(env.RuntimeVersion)),
		URL:        r.RuntimeInfo,
		IconPath:   icon("gopher"),
		Attributes: tooltip(env.T("View Go runtime information")),
		Weight:     60,
		Access:     p.Has(access.Administer),
	})
	items.Set(ItemCron, Item{
		Title:      Text(env.T("Run cron")),
		URL:        current,
		IconPath:   icon("cron"),
		Attributes: tooltip(lastRunTooltip(env)),
		Query:      actionQuery(env, RunCronFlag),
		Weight:     70,
		Access:     p.Has(access.Administer),
	})
	items.Set(ItemGit, Item{
		Title:      Text(env.Branch),
		IconPath:   icon("git"),
		Attributes: tooltip(env.T("Current branch")),
		Weight:     80,
		Access:     env.Branch != "",
	})
	items.Set(ItemWatchdog, Item{
		Title:      Text(env.T("Log")),
		URL:        r.RecentLog,
		IconPath:   icon("log"),
		Attributes: tooltip(env.T("Recent log messages")),
		Weight:     90,
		Access:     p.Has(access.ViewReports),
	})
	items.Set(ItemCache, Item{
		Title:      Text(env.T("Cache")),
		URL:        current,
		IconPath:   icon("cache"),
		Attributes: tooltip(env.T("Clear all caches")),
		Query:      actionQuery(env, FlushCacheFlag),
		Weight:     100,
		Access:     p.Has(access.Administer),
	})
	items.Set(ItemLogin, Item{
		Title:      Text(env.T("Log in")),
		URL:        r.Login,
		IconPath:   icon("login"),
		Attributes: tooltip(env.T("Log in")),
		Weight:     110,
		Access:     p.IsAnonymous(),
	})
	profile := ""
	if r.Profile != nil && p.IsAuthenticated() {
		profile = r.Profile(p.ID)
	}
	items.Set(ItemUser, Item{
		Title:      Text(p.Name),
		URL:        profile,
		IconPath:   icon("user"),
		Attributes: tooltip(env.T("View profile")),
		Weight:     120,
		Access:     p.IsAuthenticated(),
	})
	items.Set(ItemLogout, Item{
		Title:      Text(env.T("Log out")),
		URL:        r.Logout,
		Query:      url.Values{TokenParam: {env.token(LogoutAction)}},
		IconPath:   icon("logout"),
		Attributes: tooltip(env.T("Log out")),
		Weight:     130,
		Access:     p.IsAuthenticated(),
	})
	return items
}

// HideWeight returns the weight of the hide item for s.
func HideWeight(s settings.Settings) int {
	if s.Float || s.Position.IsLeft() {
		return HideWeightFirst
	}
	return HideWeightLast
}

// HideItem returns the close control: no title, no icon, linking to the front page.
func HideItem(env *Env) Item {
	front := env.Routes.Front
	if front == "" {
		front = "/"
	}
	return Item{
		ID:         HideItemID,
		URL:        front,
		Attributes: map[string]string{"title": env.T("Hide")},
		Weight:     HideWeight(env.Settings),
		Access:     true,
	}
}

func actionQuery(env *Env, action string) url.Values {
	return url.Values{
		action:     {"1"},
		TokenParam: {env.token(action)},
	}
}

func lastRunTooltip(env *Env) string {
	if env.LastCron.IsZero() {
		return env.T("Never run")
	}
	return env.T("Last run %s ago", env.FormatInterval(env.Now.Sub(env.LastCron), 2))
}

// shortRuntimeVersion drops build suffixes: "go1.24.0 X:boringcrypto" -> "go1.24.0".
func shortRuntimeVersion(v string) string {
	if f := strings.Fields(v); len(f) > 0 {
		return f[0]
	}
	return v
}
