package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "validation error keeps message",
			err:            NewValidationError("the following fields are required: name"),
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "the following fields are required: name",
		},
		{
			name:           "wrapped not found",
			err:            fmt.Errorf("get workout: %w", ErrWorkoutNotFound),
			expectedStatus: http.StatusNotFound,
			expectedMsg:    ErrWorkoutNotFound.Error(),
		},
		{
			name:           "invalid id",
			err:            ErrInvalidID,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid id",
		},
		{
			name:           "duplicate user",
			err:            ErrUserAlreadyExists,
			expectedStatus: http.StatusConflict,
			expectedMsg:    ErrUserAlreadyExists.Error(),
		},
		{
			name:           "wrapped duplicate user",
			err:            fmt.Errorf("register alice: %w", ErrUserAlreadyExists),
			expectedStatus: http.StatusConflict,
			expectedMsg:    ErrUserAlreadyExists.Error(),
		},
		{
			name:           "wrapped bad credentials",
			err:            fmt.Errorf("login: %w", ErrInvalidCredentials),
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    ErrInvalidCredentials.Error(),
		},
		{
			name:           "body too large",
			err:            ErrBodyTooLarge,
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedMsg:    "request body too large",
		},
		{
			name:           "storage fault hides detail",
			err:            errors.New("pq: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal error while creating workout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err, "internal error while creating workout")
			assert.Equal(t, tt.expectedStatus, httpErr.StatusCode)
			assert.Equal(t, tt.expectedMsg, httpErr.Message)
			assert.Equal(t, tt.expectedMsg, httpErr.ToErrorResponse().Message)
		})
	}
}

func TestMapErrorToHTTP_DefaultFallback(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("boom"), "")
	assert.True(t, httpErr.IsInternal())
	assert.Equal(t, "internal server error", httpErr.Message)
}
