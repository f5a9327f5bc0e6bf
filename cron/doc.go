// Package cron runs the application's scheduled jobs on demand.
//
// A Runner holds named jobs and runs all of them, sequentially and in registration
// order, whenever Run is called. It records per-job status and the time of the last
// completed run, which the debug bar shows as "Last run ... ago".
//
// Run never overlaps with itself: a second concurrent call returns ErrAlreadyRunning.
// A panicking job is recovered, reported as ErrPanicked and does not stop the remaining jobs.
//
// Minimal usage:
//
//	r := cron.NewRunner(cron.WithLogger(logger))
//	r.MustAdd("purge-sessions", purgeSessions)
//	if err := r.Run(ctx); err != nil { ... }
package cron
