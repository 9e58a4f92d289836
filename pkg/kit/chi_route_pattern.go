package kit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ChiRoutePatternOrPath labels metrics with the matched chi pattern
// ("/api/products/{id}") so per-record paths don't explode cardinality.
// Requests that never hit a chi router fall back to the raw path.
func ChiRoutePatternOrPath(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc == nil {
		return r.URL.Path
	}
	if rp := rc.RoutePattern(); rp != "" {
		return rp
	}
	return r.URL.Path
}
