// Package service provides business logic for the application.
package service

import "errors"

// Service errors. Handlers map these to HTTP responses with errors.Is.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// the two are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password too short")

	// ErrTaskNotFound covers both a missing task and a task owned by
	// another user; existence of other users' tasks is not disclosed.
	ErrTaskNotFound  = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
	ErrTaskIDRequired = errors.New("task id is required")

	// ErrTimerRunning and ErrTimerNotRunning are expected, recoverable
	// conditions; the caller refreshes state and moves on.
	ErrTimerRunning    = errors.New("timer already running")
	ErrTimerNotRunning = errors.New("no active timer")
)
