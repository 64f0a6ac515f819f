package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"workouttracker/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive for the test
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Workout{}))
	return db
}

func createUser(t *testing.T, repo UserRepository, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createWorkout(t *testing.T, repo WorkoutRepository, userID uuid.UUID, name string, date time.Time) *model.Workout {
	t.Helper()
	w := &model.Workout{UserID: userID, Name: name, Duration: 30, Date: date}
	require.NoError(t, repo.Create(context.Background(), w))
	return w
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	bob := createUser(t, repo, "bob")
	createUser(t, repo, "alice")
	assert.NotEqual(t, uuid.Nil, bob.ID)

	found, err := repo.FindByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", found.Username)

	found, err = repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	_, err = repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func TestWorkoutRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewWorkoutRepository(db)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	createWorkout(t, repo, alice.ID, "older", day)
	createWorkout(t, repo, alice.ID, "newer", day.AddDate(0, 0, 2))
	createWorkout(t, repo, bob.ID, "bob's", day.AddDate(0, 0, 1))

	workouts, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, workouts, 2)
	assert.Equal(t, "newer", workouts[0].Name)
	assert.Equal(t, "older", workouts[1].Name)
	for _, w := range workouts {
		assert.Equal(t, alice.ID, w.UserID)
	}

	none, err := repo.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestWorkoutRepository_FindScoped(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewWorkoutRepository(db)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	w := createWorkout(t, repo, alice.ID, "Run", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	found, err := repo.FindScoped(ctx, w.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Run", found.Name)

	_, err = repo.FindScoped(ctx, w.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindScoped(ctx, uuid.New(), alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkoutRepository_UpdateScoped(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewWorkoutRepository(db)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	description := "easy"
	w := &model.Workout{
		UserID:      alice.ID,
		Name:        "Run",
		Description: &description,
		Duration:    30,
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, w))

	t.Run("only supplied columns change", func(t *testing.T) {
		updated, err := repo.UpdateScoped(ctx, w.ID, alice.ID, map[string]interface{}{"duration": 45.5})
		require.NoError(t, err)
		assert.Equal(t, 45.5, updated.Duration)
		assert.Equal(t, "Run", updated.Name)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "easy", *updated.Description)
		assert.Equal(t, alice.ID, updated.UserID)
	})

	t.Run("null description clears it", func(t *testing.T) {
		var cleared *string
		updated, err := repo.UpdateScoped(ctx, w.ID, alice.ID, map[string]interface{}{"description": cleared})
		require.NoError(t, err)
		assert.Nil(t, updated.Description)
	})

	t.Run("other owner is not found and nothing changes", func(t *testing.T) {
		_, err := repo.UpdateScoped(ctx, w.ID, bob.ID, map[string]interface{}{"name": "Hijacked"})
		assert.ErrorIs(t, err, ErrNotFound)

		stored, err := repo.FindScoped(ctx, w.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Run", stored.Name)
	})

	t.Run("missing workout", func(t *testing.T) {
		_, err := repo.UpdateScoped(ctx, uuid.New(), alice.ID, map[string]interface{}{"name": "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty changes return the stored workout", func(t *testing.T) {
		updated, err := repo.UpdateScoped(ctx, w.ID, alice.ID, map[string]interface{}{})
		require.NoError(t, err)
		assert.Equal(t, w.ID, updated.ID)
	})
}

func TestWorkoutRepository_DeleteScoped(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewWorkoutRepository(db)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	w := createWorkout(t, repo, alice.ID, "Run", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.ErrorIs(t, repo.DeleteScoped(ctx, w.ID, bob.ID), ErrNotFound)
	_, err := repo.FindScoped(ctx, w.ID, alice.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteScoped(ctx, w.ID, alice.ID))
	_, err = repo.FindScoped(ctx, w.ID, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.DeleteScoped(ctx, w.ID, alice.ID), ErrNotFound)
}
