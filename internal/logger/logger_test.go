package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = New("loud")
	assert.Error(t, err)
}

func TestAuditor(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	a := NewAuditor(zap.New(core))

	a.LogAction("workout created", "user-1", "/api/workouts")
	a.LogError(errors.New("db down"), "", "/api/workouts/1")

	entries := logs.All()
	require.Len(t, entries, 2)

	action := entries[0]
	assert.Equal(t, "workout created", action.Message)
	assert.Equal(t, zapcore.InfoLevel, action.Level)
	assert.Equal(t, "user-1", action.ContextMap()["user_id"])
	assert.Equal(t, "/api/workouts", action.ContextMap()["endpoint"])

	failure := entries[1]
	assert.Equal(t, zapcore.ErrorLevel, failure.Level)
	assert.Equal(t, "", failure.ContextMap()["user_id"])
	assert.Equal(t, "db down", failure.ContextMap()["error"])
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/healthz", entries[0].ContextMap()["uri"])
	assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])
}
