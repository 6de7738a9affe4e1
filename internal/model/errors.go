package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is the root of every "record or membership is missing" error.
// Match with errors.Is.
var ErrNotFound = errors.New("not found")

var (
	// User related errors
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrFriendNotFound     = fmt.Errorf("friend %w", ErrNotFound)
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfReference      = errors.New("user cannot befriend themselves")

	// Present related errors
	ErrPresentNotFound = fmt.Errorf("present %w", ErrNotFound)

	// Store failures. Transient; the caller decides whether to retry.
	ErrStoreUnavailable = errors.New("store unavailable")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
