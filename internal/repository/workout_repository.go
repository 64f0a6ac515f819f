package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workouttracker/internal/model"
)

// WorkoutRepository defines workout persistence operations. Every lookup and
// mutation is scoped by owner; a workout owned by someone else is reported as
// ErrNotFound, exactly like a missing one.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *model.Workout) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Workout, error)
	FindScoped(ctx context.Context, id, userID uuid.UUID) (*model.Workout, error)
	UpdateScoped(ctx context.Context, id, userID uuid.UUID, changes map[string]interface{}) (*model.Workout, error)
	DeleteScoped(ctx context.Context, id, userID uuid.UUID) error
}

type workoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a new workout repository.
func NewWorkoutRepository(db *gorm.DB) WorkoutRepository {
	return &workoutRepository{db: db}
}

// Create creates a new workout.
func (r *workoutRepository) Create(ctx context.Context, workout *model.Workout) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(workout).Error
}

// ListByUser lists the workouts of one user, most recent first.
func (r *workoutRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Workout, error) {
	workouts := []model.Workout{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("created_at DESC").
		Find(&workouts).Error; err != nil {
		return nil, err
	}
	return workouts, nil
}

// FindScoped finds a workout by ID within the owner's scope.
func (r *workoutRepository) FindScoped(ctx context.Context, id, userID uuid.UUID) (*model.Workout, error) {
	return findScoped(r.db.WithContext(ctx), id, userID, false)
}

// UpdateScoped applies changes to an owned workout under a row lock and returns
// the stored result. Only the supplied columns are written.
func (r *workoutRepository) UpdateScoped(ctx context.Context, id, userID uuid.UUID, changes map[string]interface{}) (*model.Workout, error) {
	var updated *model.Workout
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		workout, err := findScoped(tx, id, userID, true)
		if err != nil {
			return err
		}
		if len(changes) > 0 {
			if err := tx.Model(workout).Omit(clause.Associations).Updates(changes).Error; err != nil {
				return err
			}
		}
		updated, err = findScoped(tx, id, userID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteScoped deletes an owned workout in a single conditional statement.
func (r *workoutRepository) DeleteScoped(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Workout{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func findScoped(db *gorm.DB, id, userID uuid.UUID, forUpdate bool) (*model.Workout, error) {
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var workout model.Workout
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&workout).Error; err != nil {
		return nil, translate(err)
	}
	return &workout, nil
}
