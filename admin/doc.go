// Package admin assembles the debug bar's own admin subtree: the pages the bar links to
// (status report, runtime, recent log), the job status page, the settings form and the
// static assets.
//
// # Security model
//
//   - Nothing is mounted unless explicitly enabled via an Enable* option.
//   - Every enabled endpoint has an explicit Guard; a nil Guard panics at assembly time.
//   - Guards usually come from Require, which checks a capability of the request principal
//     (resolved earlier by the bar middleware).
//
// # Paths
//
// New takes the mount prefix (for example "/_debug_bar") and strips it before routing,
// so each Enable* spec uses paths relative to the prefix.
//
//	h := admin.New("/_debug_bar",
//		admin.EnableStatus(admin.StatusSpec{Guard: admin.Require(access.ViewReports)}),
//		admin.EnableSettings(admin.SettingsSpec{Guard: admin.Require(access.Administer), Form: form}),
//		admin.EnableAssets(admin.AssetsSpec{}),
//	)
//
// Assembly errors (nil guard, duplicate path, invalid path) are fail-fast and panic.
package admin
