package domain

import "errors"

var (
	// ErrUnavailable is returned before the first snapshot has been published
	ErrUnavailable = errors.New("inventory snapshot not initialized")
	// ErrNotFound is returned when a start object cannot be resolved
	ErrNotFound = errors.New("not found")
	// ErrUnsupported is returned for start object kinds the builder cannot start from
	ErrUnsupported = errors.New("unsupported")
	// ErrInvalidPolicy is returned when a traversal policy fails validation
	ErrInvalidPolicy = errors.New("invalid policy")
	// ErrRefreshInProgress is returned when a refresh is requested while one is running
	ErrRefreshInProgress = errors.New("data collection is already in progress")
	// ErrEmptyCollection is returned by a collector that produced no data
	ErrEmptyCollection = errors.New("collector returned no data")
)
