package registry

import "errors"

var (
	// ErrActivityNotFound is returned when an activity name is not in the registry.
	ErrActivityNotFound = errors.New("activity not found")

	// ErrAlreadyRegistered is returned by Enroll when the email is already on the roster.
	ErrAlreadyRegistered = errors.New("already signed up")

	// ErrNotRegistered is returned by Withdraw when the email is not on the roster.
	ErrNotRegistered = errors.New("not registered")

	// ErrActivityFull is returned by Enroll when capacity enforcement is on
	// and the roster has reached max_participants.
	ErrActivityFull = errors.New("activity is full")

	// ErrInvalidSeed wraps every problem found while loading the seed list.
	ErrInvalidSeed = errors.New("invalid activity seed")
)
