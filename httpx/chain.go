package httpx

import "net/http"

// Middleware is a standard net/http middleware.
//
// A middleware wraps the next handler and returns a new handler.
type Middleware func(http.Handler) http.Handler

// Middlewares is a middleware chain builder.
//
// Order:
//   - Chain(a, b, c).Handler(h) returns a(b(c(h))).
type Middlewares []Middleware

// Chain creates a middleware chain from the provided middlewares.
//
// Nil middlewares are ignored.
func Chain(mws ...Middleware) Middlewares {
	out := appendNonNil(nil, mws)
	if len(out) == 0 {
		return nil
	}
	return out
}

// With returns a new chain by appending more middlewares to the current chain.
//
// With never mutates the receiver, and the returned chain does not share the
// underlying array with the receiver.
func (mws Middlewares) With(more ...Middleware) Middlewares {
	out := make([]Middleware, 0, len(mws)+len(more))
	out = appendNonNil(out, mws)
	out = appendNonNil(out, more)
	if len(out) == 0 {
		return nil
	}
	return out
}

// Handler builds an http.Handler from the chain with h as the final handler.
//
// It panics if h is nil (a configuration/assembly error).
func (mws Middlewares) Handler(h http.Handler) http.Handler {
	if h == nil {
		panic("httpx: nil endpoint handler")
	}
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		h = mws[i](h)
	}
	return h
}

// Middleware collapses the chain into a single Middleware.
//
// An empty chain returns the identity middleware.
func (mws Middlewares) Middleware() Middleware {
	snapshot := appendNonNil(nil, mws)
	return func(next http.Handler) http.Handler {
		return Middlewares(snapshot).Handler(next)
	}
}

// Wrap applies middlewares to h and returns the wrapped handler.
//
// Nil middlewares are ignored.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	return Chain(mws...).Handler(h)
}

func appendNonNil(dst []Middleware, src []Middleware) []Middleware {
	for _, mw := range src {
		if mw == nil {
			continue
		}
		dst = append(dst, mw)
	}
	return dst
}
