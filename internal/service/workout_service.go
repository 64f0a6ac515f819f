package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	apperrors "workouttracker/internal/errors"
	"workouttracker/internal/model"
	"workouttracker/internal/repository"
)

// WorkoutService exposes ownership-scoped workout operations.
type WorkoutService interface {
	Create(ctx context.Context, userID uuid.UUID, input *WorkoutInput) (*model.Workout, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Workout, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Workout, error)
	Update(ctx context.Context, id, userID uuid.UUID, input *WorkoutInput) (*model.Workout, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type workoutService struct {
	repo repository.WorkoutRepository
}

// NewWorkoutService creates a new workout service.
func NewWorkoutService(repo repository.WorkoutRepository) WorkoutService {
	return &workoutService{repo: repo}
}

// Create stores a new workout owned by userID. The owner and ID are never taken from input.
func (s *workoutService) Create(ctx context.Context, userID uuid.UUID, input *WorkoutInput) (*model.Workout, error) {
	if input.Name == nil || input.Duration == nil || input.Date == nil {
		return nil, apperrors.NewValidationError("name, duration and date are required")
	}

	workout := &model.Workout{
		UserID:      userID,
		Name:        *input.Name,
		Description: input.Description,
		Duration:    *input.Duration,
		Date:        *input.Date,
	}
	if err := s.repo.Create(ctx, workout); err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}
	return workout, nil
}

// List returns the caller's workouts; an empty slice when there are none.
func (s *workoutService) List(ctx context.Context, userID uuid.UUID) ([]model.Workout, error) {
	workouts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	if workouts == nil {
		workouts = []model.Workout{}
	}
	return workouts, nil
}

// Get returns one workout if it exists and belongs to userID.
func (s *workoutService) Get(ctx context.Context, id, userID uuid.UUID) (*model.Workout, error) {
	workout, err := s.repo.FindScoped(ctx, id, userID)
	if err != nil {
		return nil, scopedError("get workout", err)
	}
	return workout, nil
}

// Update applies only the supplied fields of input.
func (s *workoutService) Update(ctx context.Context, id, userID uuid.UUID, input *WorkoutInput) (*model.Workout, error) {
	workout, err := s.repo.UpdateScoped(ctx, id, userID, input.Changes())
	if err != nil {
		return nil, scopedError("update workout", err)
	}
	return workout, nil
}

// Delete removes one owned workout.
func (s *workoutService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.DeleteScoped(ctx, id, userID); err != nil {
		return scopedError("delete workout", err)
	}
	return nil
}

func scopedError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrWorkoutNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
