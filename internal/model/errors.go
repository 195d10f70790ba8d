package model

import "errors"

var (
	// ErrNotFound is returned when a planting record, sensor, crop, stage rule or reminder does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed event types or out-of-range parameters.
	ErrValidation = errors.New("validation failed")
)
