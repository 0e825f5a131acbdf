package store

import "errors"

// Domain error kinds. Callers classify with errors.Is; anything that does not
// match one of these is an internal storage failure.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)
