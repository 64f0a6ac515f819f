package repository

import "errors"

// ErrNotFound is returned when a record does not exist or is outside the caller's scope.
var ErrNotFound = errors.New("record not found")
