package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"workouttracker/internal/auth"
	apperrors "workouttracker/internal/errors"
	"workouttracker/internal/logger"
	"workouttracker/internal/observability"
	"workouttracker/internal/service"
)

// maxBodyBytes bounds workout payloads.
const maxBodyBytes = 1 << 20

// WorkoutHandler handles workout endpoints.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	validator      *service.WorkoutValidator
	audit          logger.AuditLogger
}

// NewWorkoutHandler creates a new workout handler.
func NewWorkoutHandler(workoutService service.WorkoutService, validator *service.WorkoutValidator, audit logger.AuditLogger) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		validator:      validator,
		audit:          audit,
	}
}

// WorkoutRequest documents the accepted workout body.
type WorkoutRequest struct {
	Name        string  `json:"name" example:"Run"`
	Description string  `json:"description,omitempty" example:"easy pace"`
	Duration    float64 `json:"duration" example:"30"`
	Date        string  `json:"date" example:"2024-01-01"`
}

// CreateWorkout godoc
// @Summary Create a workout
// @Tags workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body WorkoutRequest true "Workout data"
// @Success 201 {object} model.Workout
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c echo.Context) error {
	const op, fallback = "create", "internal error while creating workout"
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	input, err := h.validatedInput(c, true)
	if err != nil {
		return h.fail(c, op, claims, err, fallback)
	}

	workout, err := h.workoutService.Create(c.Request().Context(), claims.UserID, input)
	if err != nil {
		return h.fail(c, op, claims, err, fallback)
	}

	h.succeed(c, op, claims, "workout created successfully")
	return c.JSON(http.StatusCreated, workout)
}

// ListWorkouts godoc
// @Summary List the caller's workouts
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Workout
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c echo.Context) error {
	const op = "list"
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	workouts, err := h.workoutService.List(c.Request().Context(), claims.UserID)
	if err != nil {
		return h.fail(c, op, claims, err, "error listing workouts")
	}

	observability.RecordWorkoutOperation(op, observability.OutcomeSuccess)
	return c.JSON(http.StatusOK, workouts)
}

// GetWorkout godoc
// @Summary Get one of the caller's workouts
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} model.Workout
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c echo.Context) error {
	const op, fallback = "get", "internal error while fetching workout"
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	id, err := workoutID(c)
	if err != nil {
		return h.fail(c, op, claims, err, fallback)
	}

	workout, err := h.workoutService.Get(c.Request().Context(), id, claims.UserID)
	if err != nil {
		return h.fail(c, op, claims, err, fallback)
	}

	h.succeed(c, op, claims, "workout retrieved successfully")
	return c.JSON(http.StatusOK, workout)
}

// UpdateWorkout godoc
// @Summary Replace a workout's fields
// @Description name, duration and date are required; description is optional.
// @Tags workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param request body WorkoutRequest true "Workout data"
// @Success 200 {object} model.Workout
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /workouts/{id} [put]
func (h *WorkoutHandler) UpdateWorkout(c echo.Context) error {
	return h.update(c, "update", true, "error updating workout")
}

// PatchWorkout godoc
// @Summary Update some of a workout's fields
// @Tags workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param request body WorkoutRequest true "Fields to change"
// @Success 200 {object} model.Workout
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /workouts/{id} [patch]
func (h *WorkoutHandler) PatchWorkout(c echo.Context) error {
	return h.update(c, "patch", false, "error partially updating workout")
}

func (h *WorkoutHandler) update(c echo.Context, op string, full bool, fallback string) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	input, err := h.validatedInput(c, full)
	if err != nil {
		return h.fail(c, op, claims, err, fallback)
	}

	id, err := workoutID(c)
	if err != nil {
		return h.fail(c, op, claims, err, fallback)
	}

	workout, err := h.workoutService.Update(c.Request().Context(), id, claims.UserID, input)
	if err != nil {
		return h.fail(c, op, claims, err, fallback)
	}

	h.succeed(c, op, claims, "workout updated successfully")
	return c.JSON(http.StatusOK, workout)
}

// DeleteWorkout godoc
// @Summary Delete one of the caller's workouts
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} errors.MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c echo.Context) error {
	const op, fallback = "delete", "internal error while removing workout"
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	id, err := workoutID(c)
	if err != nil {
		return h.fail(c, op, claims, err, fallback)
	}

	if err := h.workoutService.Delete(c.Request().Context(), id, claims.UserID); err != nil {
		return h.fail(c, op, claims, err, fallback)
	}

	const message = "workout removed successfully"
	h.succeed(c, op, claims, message)
	return c.JSON(http.StatusOK, apperrors.MessageResponse{Message: message})
}

// validatedInput reads the body, checks required fields when full is set,
// then checks the shape of whatever was supplied.
func (h *WorkoutHandler) validatedInput(c echo.Context, full bool) (*service.WorkoutInput, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.ErrBodyTooLarge
		}
		return nil, apperrors.NewValidationError("invalid request body")
	}

	payload, err := service.ParseWorkoutPayload(body)
	if err != nil {
		return nil, err
	}

	if full {
		if err := h.validator.RequireFields(payload, service.RequiredWorkoutFields...); err != nil {
			return nil, err
		}
	}
	return h.validator.CheckShape(payload)
}

// fail converts err into the client response. Only unexpected faults are
// audited, with full detail; the client sees the generic fallback.
func (h *WorkoutHandler) fail(c echo.Context, op string, claims *auth.Claims, err error, fallback string) error {
	httpErr := apperrors.MapErrorToHTTP(err, fallback)

	outcome := observability.OutcomeInvalid
	switch {
	case httpErr.IsInternal():
		outcome = observability.OutcomeError
		h.audit.LogError(err, claims.UserID.String(), c.Request().URL.RequestURI())
	case errors.Is(err, apperrors.ErrWorkoutNotFound):
		outcome = observability.OutcomeNotFound
	}
	observability.RecordWorkoutOperation(op, outcome)

	return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
}

func (h *WorkoutHandler) succeed(c echo.Context, op string, claims *auth.Claims, message string) {
	observability.RecordWorkoutOperation(op, observability.OutcomeSuccess)
	h.audit.LogAction(message, claims.UserID.String(), c.Request().URL.RequestURI())
}

// callerClaims returns the verified caller. The auth middleware guarantees
// them on every workout route.
func callerClaims(c echo.Context) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token not provided, please log in")
	}
	return claims, nil
}

func workoutID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidID
	}
	return id, nil
}
