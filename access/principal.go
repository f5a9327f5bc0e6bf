package access

import (
	"context"
	"net/http"
	"slices"
)

// Capability is a named permission.
type Capability string

const (
	// ViewBar allows seeing the debug bar.
	ViewBar Capability = "view debug bar"
	// Administer allows admin-only items and actions (run jobs, flush caches, settings).
	Administer Capability = "administer site configuration"
	// ViewReports allows the status report and recent log links.
	ViewReports Capability = "access site reports"
)

// Principal is the per-request identity.
//
// The zero value is the anonymous principal with no capabilities.
type Principal struct {
	ID   string
	Name string
	// Session identifies the login session; anti-forgery tokens are bound to it.
	Session      string
	Capabilities []Capability
}

// IsAnonymous reports whether p is not logged in.
func (p Principal) IsAnonymous() bool { return p.ID == "" }

// IsAuthenticated is the negation of IsAnonymous.
func (p Principal) IsAuthenticated() bool { return p.ID != "" }

// Has reports whether p holds c.
func (p Principal) Has(c Capability) bool { return slices.Contains(p.Capabilities, c) }

// Resolver determines the principal of a request.
//
// Implementations must be safe for concurrent use and must not write to the response.
type Resolver interface {
	Resolve(r *http.Request) Principal
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(r *http.Request) Principal

func (f ResolverFunc) Resolve(r *http.Request) Principal { return f(r) }

// Static returns a resolver that always yields p.
func Static(p Principal) Resolver {
	return ResolverFunc(func(*http.Request) Principal { return p })
}

type principalKey struct{}

// WithPrincipal returns a derived context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, or the anonymous principal.
func FromContext(ctx context.Context) Principal {
	if ctx == nil {
		return Principal{}
	}
	p, _ := ctx.Value(principalKey{}).(Principal)
	return p
}

// Require returns a middleware that answers 403 unless the request principal holds c.
func Require(c Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			panic("access: Require: nil next handler")
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !FromContext(r.Context()).Has(c) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
