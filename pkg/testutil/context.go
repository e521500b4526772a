package testutil

import (
	"net/http"
	"time"

	"clicker/pkg/requestcontext"
)

// WithTime pins the request-scoped clock. The mock counting service's
// odd/even rule reads the day of month from it.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
