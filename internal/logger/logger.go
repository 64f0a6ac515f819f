// Package logger builds the zap loggers used across the service and the
// audit sink that records user actions and request failures.
package logger

import (
	"errors"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON production logger at the given level.
func New(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// Sync flushes any buffered log entries, ignoring the error stderr returns on some platforms.
func Sync(l *zap.Logger) error {
	if err := l.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return err
	}
	return nil
}

// AuditLogger records successful actions and failures with caller context.
type AuditLogger interface {
	LogAction(message, userID, endpoint string)
	LogError(err error, userID, endpoint string)
}

// Auditor is the zap-backed AuditLogger.
type Auditor struct {
	log *zap.Logger
}

var _ AuditLogger = (*Auditor)(nil)

// NewAuditor creates an auditor writing to l under the "audit" name.
func NewAuditor(l *zap.Logger) *Auditor {
	return &Auditor{log: l.Named("audit")}
}

// LogAction records a successful user action.
func (a *Auditor) LogAction(message, userID, endpoint string) {
	a.log.Info(message,
		zap.String("kind", "action"),
		zap.String("user_id", userID),
		zap.String("endpoint", endpoint),
	)
}

// LogError records a failure. userID is empty when the caller is not resolved.
func (a *Auditor) LogError(err error, userID, endpoint string) {
	a.log.Error("request failed",
		zap.String("kind", "error"),
		zap.String("user_id", userID),
		zap.String("endpoint", endpoint),
		zap.Error(err),
	)
}

// RequestLogger logs one line per request with method, uri, status, and latency.
func RequestLogger(l *zap.Logger) echo.MiddlewareFunc {
	l = l.Named("http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency.Round(time.Microsecond)),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				l.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			l.Info("request", fields...)
			return nil
		},
	})
}
