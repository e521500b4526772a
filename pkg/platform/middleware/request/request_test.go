package request_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clicker/pkg/platform/middleware/request"
	"clicker/pkg/requestcontext"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := request.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	t.Run("keeps the caller's ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(request.HeaderRequestID, "req-1")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, "req-1", seen)
		assert.Equal(t, "req-1", rec.Header().Get(request.HeaderRequestID))
	})

	t.Run("generates one when missing or oversized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(request.HeaderRequestID, strings.Repeat("x", 200))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		require.Len(t, seen, 36)
		assert.Equal(t, seen, rec.Header().Get(request.HeaderRequestID))
	})
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := request.RequestID(request.AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodPost, "/v1/counts", nil)
	req.Header.Set(request.HeaderRequestID, "req-9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-9"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"path":"/v1/counts"`)
}
