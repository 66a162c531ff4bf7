// Package service implements the application operations on top of the
// repositories and the progress engine: task lifecycle, pomodoro sessions,
// deep-work focus sessions and rewards.
package service

import "errors"

var (
	ErrEmptyTitle       = errors.New("task title is empty")
	ErrEmptyName        = errors.New("reward name is empty")
	ErrInvalidThreshold = errors.New("required sessions must be positive")
	ErrNoActiveSession  = errors.New("no active session")
)
