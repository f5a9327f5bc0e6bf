// Package httpx provides the small net/http plumbing the debug bar is built on.
//
// # Middleware chain
//
// A middleware is a standard net/http wrapper:
//
//	type Middleware func(http.Handler) http.Handler
//
// Order:
//   - Chain(a, b, c).Handler(h) returns a(b(c(h))).
//
// Nil middlewares are ignored. Handler(nil) panics: a nil endpoint is an assembly error.
//
// # Built-in middlewares
//
//   - Recover: recovers handler panics and logs them via slog.
//   - RequestID: assigns a request id (UUID by default) and stores it in the context.
//
// # Response capture
//
// Capture wraps a ResponseWriter and buffers the body so that a later stage can rewrite it
// before anything reaches the client. Streaming handlers (Flush / Hijack) switch the capture
// into pass-through mode; the rewriting stage must then leave the response alone.
//
// # Request helpers
//
//   - IsXHR reports whether a request was issued by XMLHttpRequest / fetch wrappers that set
//     the conventional X-Requested-With header.
package httpx
