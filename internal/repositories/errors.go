package repositories

import "errors"

// ErrNotFound is returned when a requested record does not exist.
// Handlers translate it into a 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert trips a unique constraint.
var ErrDuplicate = errors.New("already exists")
