package httpx

import (
	"net/http"
	"strings"
)

// IsXHR reports whether r carries "X-Requested-With: XMLHttpRequest" (case-insensitive).
func IsXHR(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Requested-With")), "XMLHttpRequest")
}
