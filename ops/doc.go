// Package ops provides the read-only report handlers linked from the debug bar.
//
// Handlers here do not choose routing paths and do not make authorization decisions;
// the admin package mounts them under the bar prefix behind capability guards.
//
// # Formats
//
// Every handler renders text by default. The default can be changed with an option and
// overridden per request:
//   - ?format=text
//   - ?format=json
//
// Text output is line-based and greppable: "<section>\t<key>\t<value>".
//
// # Handlers
//
//   - StatusHandler: build metadata plus sections supplied by the caller (status report)
//   - RuntimeHandler: Go runtime, memory and GC overview
//   - RecentLogHandler: the tail of a LogRing
//   - JobsHandler: scheduled job status from a cron.Runner
package ops
