package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordWorkoutOperation(t *testing.T) {
	before := testutil.ToFloat64(workoutOperations.WithLabelValues("create", OutcomeSuccess))
	RecordWorkoutOperation("create", OutcomeSuccess)
	after := testutil.ToFloat64(workoutOperations.WithLabelValues("create", OutcomeSuccess))
	assert.Equal(t, before+1, after)
}

func TestMetricsEndpoint(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/metrics", Handler())
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "workout_api_http_request_duration_seconds")
}
