// Package debugbar injects a developer diagnostics bar into HTML responses.
//
// A Bar is net/http middleware. For every request it:
//
//   - starts the per-request query log and timer (outermost)
//   - assigns a request id and recovers panics
//   - resolves the request principal
//   - handles the two admin actions carried by bar links: run scheduled jobs
//     (?debug-bar-run-cron=1) and flush caches (?debug-bar-flush-cache=1). Both require the
//     administer capability and a valid per-action token; on success the action runs, a
//     notice is queued and the client is redirected to the same URL without the action
//     parameters.
//   - captures the application response and, for HTML pages viewed by a principal with the
//     view capability, splices the bar markup in before the last </body>.
//
// The bar's own pages (status report, runtime, recent log, jobs, settings form, assets)
// live under a prefix, "/_debug_bar" by default, served by Bar.Handler. Bar.Mount
// combines both:
//
//	b := debugbar.New(debugbar.Spec{Resolver: resolver, Settings: store})
//	http.ListenAndServe(":8080", b.Mount(app))
//
// # Extension
//
// Alter hooks (Spec.Alters, Bar.Alter) receive the per-request *bar.Env and the mutable
// ordered *bar.Items before sorting and filtering, in registration order.
//
// # Serving
//
// Service runs an http.Server with signal handling and graceful shutdown; cmd/debugbar-demo
// uses it.
package debugbar
