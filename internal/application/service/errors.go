package service

import "errors"

var (
	// ErrNotFound covers missing entities and decisions hidden from the caller
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied is returned when a caller reads a booking that is not theirs
	ErrAccessDenied = errors.New("access denied")

	// ErrItemUnavailable is returned when booking an item marked unavailable
	ErrItemUnavailable = errors.New("item unavailable for booking")

	// ErrAlreadyApproved is returned when deciding on a booking that left WAITING
	ErrAlreadyApproved = errors.New("booking already decided")

	// ErrConflict is returned when a unique value is already taken
	ErrConflict = errors.New("conflict")

	// ErrInvalidArgument is returned for malformed input such as bad paging
	ErrInvalidArgument = errors.New("invalid argument")
)
