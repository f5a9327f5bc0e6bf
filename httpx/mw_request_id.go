// RequestID middleware.
//
// RequestID ensures each request has a request id, stored in context and (by default) echoed in the
// response header. Incoming values are validated to avoid header/log pollution; anything that does
// not validate is replaced by a freshly generated UUID.
//
// Extracting:
//
//	id, _ := httpx.RequestIDFromRequest(r)
package httpx

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// DefaultRequestIDHeader is the default header used for request ID propagation.
const DefaultRequestIDHeader = "X-Request-ID"

// RequestIDOption configures the RequestID middleware.
type RequestIDOption func(*requestIDConfig)

type requestIDConfig struct {
	trustIncoming     bool
	setResponseHeader bool
	maxLen            int
	gen               func() string
}

// WithTrustIncoming controls whether RequestID trusts and uses an incoming X-Request-ID.
//
// Default is true.
func WithTrustIncoming(v bool) RequestIDOption {
	return func(c *requestIDConfig) { c.trustIncoming = v }
}

// WithSetResponseHeader controls whether RequestID sets DefaultRequestIDHeader on the response.
//
// Default is true.
func WithSetResponseHeader(v bool) RequestIDOption {
	return func(c *requestIDConfig) { c.setResponseHeader = v }
}

// WithGenerator sets a custom request id generator. Nil leaves the UUID generator in place.
func WithGenerator(fn func() string) RequestIDOption {
	return func(c *requestIDConfig) {
		if fn != nil {
			c.gen = fn
		}
	}
}

// RequestID returns a middleware that ensures each request has a request id.
func RequestID(opts ...RequestIDOption) Middleware {
	cfg := requestIDConfig{
		trustIncoming:     true,
		setResponseHeader: true,
		maxLen:            128,
		gen:               uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return func(next http.Handler) http.Handler {
		if next == nil {
			panic("httpx: nil next handler")
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cfg.trustIncoming {
				// Only accept a single header value to avoid ambiguous ids.
				if vs := r.Header.Values(DefaultRequestIDHeader); len(vs) == 1 && validRequestID(vs[0], cfg.maxLen) {
					id = vs[0]
				}
			}
			if id == "" {
				id = cfg.gen()
				if !validRequestID(id, 256) {
					id = uuid.NewString()
				}
			}
			if cfg.setResponseHeader {
				w.Header().Set(DefaultRequestIDHeader, id)
			}
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
		})
	}
}

type requestIDKey struct{}

// RequestIDFromContext extracts the request id from ctx.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(requestIDKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// RequestIDFromRequest extracts the request id from r.Context().
func RequestIDFromRequest(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	return RequestIDFromContext(r.Context())
}

// WithRequestID returns a derived context with id stored as the request id.
//
// If id is empty, it returns ctx unchanged.
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func validRequestID(s string, maxLen int) bool {
	if s == "" || len(s) > maxLen {
		return false
	}
	// Reject comma/whitespace to avoid ambiguous/combined header values and log pollution.
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b >= 'a' && b <= 'z':
		case b >= 'A' && b <= 'Z':
		case b >= '0' && b <= '9':
		case b == '.' || b == '_' || b == '-':
		default:
			return false
		}
	}
	return true
}
