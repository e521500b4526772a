// Package requesttime pins one "now" per request so the station, the mock
// service and audit events agree on the time of a visit.
package requesttime

import (
	"net/http"
	"time"

	"clicker/pkg/requestcontext"
)

// Middleware stores the request's start time in its context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
