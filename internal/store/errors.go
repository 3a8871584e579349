package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness constraint,
// e.g. two promotions racing for the same testimonial order. The caller
// is expected to retry.
var ErrConflict = errors.New("conflict")
