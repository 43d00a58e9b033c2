package service

import "errors"

var (
	// ErrValidation means the input shape or length is unacceptable.
	ErrValidation = errors.New("invalid input")
	// ErrUsernameTaken means a case-insensitive username match exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials means no user matches the credentials.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotOwner means the acting session does not own the target task.
	ErrNotOwner = errors.New("task belongs to another user")
	// ErrNotFound means the task does not exist in the user's list.
	ErrNotFound = errors.New("task not found")
)
