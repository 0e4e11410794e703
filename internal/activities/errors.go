package activities

import "errors"

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadySignedUp  = errors.New("student is already signed up")
	ErrNotRegistered    = errors.New("student is not registered for this activity")
	ErrActivityFull     = errors.New("activity is full")
	ErrInvalidSeed      = errors.New("invalid activity seed")
)
