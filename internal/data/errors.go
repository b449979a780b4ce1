package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrJobNotFound is returned when no job document matches the identity.
	ErrJobNotFound = errors.New("job not found")
)
