package util

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailRegistered = errors.New("email already registered")

	ErrTestNotFound   = errors.New("test not found")
	ErrLoadFailure    = errors.New("failed to load test data")
	ErrSessionUnknown = errors.New("attempt session not found or expired")

	ErrNameRequired      = errors.New("name required")
	ErrIncompleteAnswers = errors.New("incomplete answers")
	ErrAttemptPersist    = errors.New("failed to save attempt")

	ErrInvalidInput = errors.New("invalid input")
)
