package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/customers/internal/metrics"
)

// Metrics records every request under its chi route pattern and the outcome
// class of its status.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := newStatusWriter(w)

		next.ServeHTTP(ww, r)

		metrics.ObserveRequest(r.Method, routePattern(r), ww.status, time.Since(start))
	})
}

// routePattern is only known after routing, so it is read once the handler
// has returned. Empty when nothing matched.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
