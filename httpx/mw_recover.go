// Recover middleware.
//
// Recover returns a middleware that recovers panics from downstream handlers and keeps the server alive.
//
// Behavior summary:
//   - It re-panics http.ErrAbortHandler to preserve net/http semantics.
//   - If the response has not started, it writes 500 Internal Server Error.
//   - Panics are logged via the configured *slog.Logger (slog.Default() if unset).
//
// Minimal usage:
//
//	h := httpx.Wrap(finalHandler, httpx.Recover())
package httpx

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
)

// RecoverOption configures the Recover middleware.
type RecoverOption func(*recoverConfig)

type recoverConfig struct {
	logger *slog.Logger
}

// WithRecoverLogger sets the logger panics are reported to.
func WithRecoverLogger(l *slog.Logger) RecoverOption {
	return func(c *recoverConfig) { c.logger = l }
}

// Recover returns a middleware that recovers from panics in downstream handlers.
func Recover(opts ...RecoverOption) Middleware {
	cfg := recoverConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		if next == nil {
			panic("httpx: nil next handler")
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &recoverResponseWriter{w: w}

			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}

				attrs := []any{
					slog.Any("panic", p),
					slog.String("method", r.Method),
					slog.String("url", r.URL.String()),
					slog.String("stack", string(debug.Stack())),
				}
				if id, ok := RequestIDFromRequest(r); ok {
					attrs = append(attrs, slog.String("request_id", id))
				}
				cfg.logger.ErrorContext(r.Context(), "httpx: recovered panic", attrs...)

				// Only write 500 if the response hasn't started yet.
				if !sw.wroteHeader {
					http.Error(sw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// recoverResponseWriter tracks whether the response has started.
// It forwards optional interfaces to avoid breaking streaming and hijacking.
type recoverResponseWriter struct {
	w           http.ResponseWriter
	wroteHeader bool
}

func (w *recoverResponseWriter) Header() http.Header { return w.w.Header() }

func (w *recoverResponseWriter) WriteHeader(statusCode int) {
	w.wroteHeader = true
	w.w.WriteHeader(statusCode)
}

func (w *recoverResponseWriter) Write(p []byte) (int, error) {
	// net/http will implicitly write headers on first Write.
	w.wroteHeader = true
	return w.w.Write(p)
}

// Unwrap returns the underlying ResponseWriter.
func (w *recoverResponseWriter) Unwrap() http.ResponseWriter { return w.w }

// Flush implements http.Flusher if supported by the underlying ResponseWriter.
func (w *recoverResponseWriter) Flush() {
	if f, ok := w.w.(http.Flusher); ok {
		w.wroteHeader = true
		f.Flush()
	}
}

// Hijack implements http.Hijacker if supported by the underlying ResponseWriter.
func (w *recoverResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.w.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("httpx: underlying ResponseWriter does not support hijacking")
	}
	c, rw, err := h.Hijack()
	if err == nil {
		// After hijacking, we must not try to write an HTTP response.
		w.wroteHeader = true
	}
	return c, rw, err
}

// ReadFrom implements io.ReaderFrom if supported by the underlying ResponseWriter.
func (w *recoverResponseWriter) ReadFrom(r io.Reader) (int64, error) {
	rf, ok := w.w.(io.ReaderFrom)
	if !ok {
		// Use the wrapper so Write marks wroteHeader.
		return io.Copy(struct{ io.Writer }{w}, r)
	}
	w.wroteHeader = true
	return rf.ReadFrom(r)
}
