package admin

import (
	"net/http"

	"github.com/evan-idocoding/debugbar/access"
)

// Guard enforces request admission for an endpoint.
//
// Implementations must be fast and must not block; they must not do I/O.
type Guard interface {
	// Middleware returns a net/http middleware that enforces this guard.
	//
	// Denied requests must respond with HTTP 403.
	Middleware() func(http.Handler) http.Handler
}

type guardFunc func(http.Handler) http.Handler

func (g guardFunc) Middleware() func(http.Handler) http.Handler { return g }

// DenyAll returns a guard that denies all requests with HTTP 403.
func DenyAll() Guard {
	return guardFunc(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
	})
}

// AllowAll returns a guard that allows all requests.
func AllowAll() Guard {
	return guardFunc(func(next http.Handler) http.Handler { return next })
}

// Require admits principals holding c (see access.FromContext).
func Require(c access.Capability) Guard {
	return guardFunc(access.Require(c))
}

// Any admits principals holding at least one of caps.
func Any(caps ...access.Capability) Guard {
	if len(caps) == 0 {
		panic("admin: Any called without capabilities")
	}
	return guardFunc(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := access.FromContext(r.Context())
			for _, c := range caps {
				if p.Has(c) {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	})
}
