package middleware

import (
	"net/http"
	"time"

	"github.com/benvon/todo-assistant/internal/telemetry"
	"github.com/gorilla/mux"
)

// unmatchedRoute labels requests that reached the middleware without a mux route
const unmatchedRoute = "unmatched"

// Metrics records request latency per route template. A nil m disables it.
func Metrics(m *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := wrapResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			m.ObserveHTTP(r.Method, routeTemplate(r), wrapped.statusCode, time.Since(start))
		})
	}
}

// routeTemplate keeps label cardinality bounded by using the matched template
// instead of the raw path.
func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return unmatchedRoute
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return unmatchedRoute
	}
	return tpl
}
