package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"workouttracker/internal/auth"
	"workouttracker/internal/config"
	"workouttracker/internal/db"
	apperrors "workouttracker/internal/errors"
	"workouttracker/internal/logger"
	"workouttracker/internal/model"
	"workouttracker/internal/repository"
	"workouttracker/internal/service"
)

var sampleWorkouts = []struct {
	name        string
	description string
	duration    float64
}{
	{"Morning run", "easy pace around the park", 30},
	{"Cycling", "hill intervals", 45},
	{"Swimming", "", 40},
	{"Strength", "upper body", 50},
	{"Yoga", "mobility and stretching", 25.5},
}

var (
	username string
	password string
	count    int
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo user with sample workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		zl, err := logger.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync(zl) }()

		gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, db.Options{MaxOpenConns: 1})
		if err != nil {
			return err
		}
		if err := db.Migrate(gormDB, false); err != nil {
			return err
		}
		zl.Info("connected to database", zap.String("driver", cfg.DBDriver))

		userRepo := repository.NewUserRepository(gormDB)
		authService := service.NewAuthService(userRepo, auth.NewJWTService(cfg.JWTSecret), auth.NewTokenStore(nil))
		workoutService := service.NewWorkoutService(repository.NewWorkoutRepository(gormDB))

		ctx := cmd.Context()
		user, err := seedUser(ctx, authService, userRepo)
		if err != nil {
			return err
		}

		created, err := seedWorkouts(ctx, workoutService, user, count, time.Now().UTC())
		if err != nil {
			return err
		}
		zl.Info("seed completed",
			zap.String("username", user.Username),
			zap.String("user_id", user.ID.String()),
			zap.Int("workouts_created", created),
		)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&username, "username", "demo", "username of the demo user")
	rootCmd.Flags().StringVar(&password, "password", "demo-password", "password of the demo user")
	rootCmd.Flags().IntVar(&count, "workouts", 10, "number of workouts to create")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// seedUser registers the demo user, or returns it when it already exists.
func seedUser(ctx context.Context, authService service.AuthService, users repository.UserRepository) (*model.User, error) {
	user, err := authService.Register(ctx, service.RegisterInput{Username: username, Password: password, Name: "Demo User"})
	if errors.Is(err, apperrors.ErrUserAlreadyExists) {
		return users.FindByUsername(ctx, username)
	}
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", username, err)
	}
	return user, nil
}

// seedWorkouts creates n workouts for user, one per day going back from now.
func seedWorkouts(ctx context.Context, workouts service.WorkoutService, user *model.User, n int, now time.Time) (int, error) {
	for i := 0; i < n; i++ {
		sample := sampleWorkouts[i%len(sampleWorkouts)]
		name := sample.name
		duration := sample.duration
		date := now.AddDate(0, 0, -i).Truncate(time.Hour)

		input := &service.WorkoutInput{Name: &name, Duration: &duration, Date: &date}
		if sample.description != "" {
			description := sample.description
			input.Description = &description
			input.DescriptionSet = true
		}
		if _, err := workouts.Create(ctx, user.ID, input); err != nil {
			return i, fmt.Errorf("create workout %d: %w", i+1, err)
		}
	}
	return n, nil
}
