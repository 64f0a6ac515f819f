package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"workouttracker/internal/logger"
)

// ContextKey is the echo context key holding the verified *Claims.
const ContextKey = "claims"

const (
	msgTokenMissing = "token not provided, please log in"
	msgTokenInvalid = "invalid or expired token"
)

var (
	// ErrUnauthenticated is recorded when a request carries no bearer token.
	ErrUnauthenticated = errors.New("token not provided")
	// ErrInvalidToken is recorded when a token is malformed, badly signed, expired, or revoked.
	ErrInvalidToken = errors.New("invalid token")

	errTokenRevoked = errors.New("token revoked")
)

// Middleware verifies the bearer token and stores its claims on the context.
// Failures short-circuit with 401 and an error audit entry without a user id.
func Middleware(jwtService *JWTService, tokens TokenStoreInterface, audit logger.AuditLogger) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(raw, KindAccess)
			if err != nil {
				return nil, err
			}
			revoked, err := tokens.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err != nil {
				return nil, err
			}
			if revoked {
				return nil, errTokenRevoked
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			endpoint := c.Request().URL.RequestURI()
			if bearerToken(c.Request()) == "" {
				audit.LogError(ErrUnauthenticated, "", endpoint)
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenMissing)
			}
			audit.LogError(fmt.Errorf("%w: %v", ErrInvalidToken, err), "", endpoint)
			return echo.NewHTTPError(http.StatusUnauthorized, msgTokenInvalid)
		},
	})
}

// ClaimsFromContext returns the claims stored by Middleware.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ContextKey).(*Claims)
	return claims, ok && claims != nil
}

// bearerToken returns the credential part of the Authorization header,
// whatever its scheme, or "" when nothing follows the scheme.
func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get(echo.HeaderAuthorization))
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
