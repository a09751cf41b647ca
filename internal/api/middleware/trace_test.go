package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/cowork-api/internal/api/shared"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace(t *testing.T) {
	t.Parallel()

	log, buf := logger.GetTestLogger(t)

	var seen string
	handler := Trace(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Debug("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/teams", nil))

	require.Len(t, seen, 32)
	assert.Equal(t, seen, recorder.Header().Get(shared.TraceIDHeader))

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "inside handler", entries[0]["msg"])
	assert.Equal(t, seen, entries[0]["trace_id"])
	assert.Equal(t, "request completed", entries[1]["msg"])
	assert.Equal(t, float64(http.StatusTeapot), entries[1]["status"])
	assert.Equal(t, "/api/teams", entries[1]["path"])
}

func TestTrace_ReusesClientTraceID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		reused bool
	}{
		{name: "well formed", header: "client-trace_01", reused: true},
		{name: "illegal characters", header: "bad trace\n", reused: false},
		{name: "empty", header: "", reused: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			log, _ := logger.GetTestLogger(t)
			handler := Trace(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(shared.TraceIDHeader, tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)

			got := recorder.Header().Get(shared.TraceIDHeader)
			if tt.reused {
				assert.Equal(t, tt.header, got)
			} else {
				assert.Len(t, got, 32)
			}
		})
	}
}
