package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gymtrack/server/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecovery(t *testing.T) {
	metricsManager := metrics.NewTestManager()

	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("oops")
	})

	wrapped := PanicRecovery(metricsManager)(panicky)

	req, err := http.NewRequest("GET", "/exercises", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		wrapped.ServeHTTP(rec, req)
	})
}

func TestPanicRecovery_PassThrough(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})

	wrapped := PanicRecovery(nil)(next)

	req, err := http.NewRequest("GET", "/exercises", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
