package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"workouttracker/internal/handler"
	"workouttracker/internal/logger"
	"workouttracker/internal/observability"
)

// Handlers groups the HTTP handlers the router wires.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Workout *handler.WorkoutHandler
}

// Register wires routes and middleware. authMiddleware guards every route that
// needs a caller identity.
func Register(e *echo.Echo, log *zap.Logger, authMiddleware echo.MiddlewareFunc, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(observability.Middleware())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "workout tracker API")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", observability.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/users/register", h.Auth.Register)
	api.POST("/users/login", h.Auth.Login)
	api.POST("/users/refresh", h.Auth.Refresh)

	// Secured routes (require JWT authentication)
	secured := api.Group("", authMiddleware)

	secured.POST("/users/logout", h.Auth.Logout)
	secured.GET("/users", h.User.ListUsers)
	secured.GET("/users/me", h.User.Me)

	// Workout routes
	secured.POST("/workouts", h.Workout.CreateWorkout)
	secured.GET("/workouts", h.Workout.ListWorkouts)
	secured.GET("/workouts/:id", h.Workout.GetWorkout)
	secured.PUT("/workouts/:id", h.Workout.UpdateWorkout)
	secured.PATCH("/workouts/:id", h.Workout.PatchWorkout)
	secured.DELETE("/workouts/:id", h.Workout.DeleteWorkout)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
