package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"workouttracker/internal/auth"
	apperrors "workouttracker/internal/errors"
	"workouttracker/internal/logger"
	"workouttracker/internal/service"
)

// UserHandler bundles user read endpoints.
type UserHandler struct {
	svc   service.UserService
	audit logger.AuditLogger
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, audit logger.AuditLogger) *UserHandler {
	return &UserHandler{svc: svc, audit: audit}
}

// Me godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return h.fail(c, err, "failed to load user")
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "failed to list users")
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) fail(c echo.Context, err error, fallback string) error {
	httpErr := apperrors.MapErrorToHTTP(err, fallback)
	if httpErr.IsInternal() {
		userID := ""
		if claims, ok := auth.ClaimsFromContext(c); ok {
			userID = claims.UserID.String()
		}
		h.audit.LogError(err, userID, c.Request().URL.RequestURI())
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
}
