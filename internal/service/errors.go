package service

import "errors"

var (
	// ErrMissingCredentials means username or password was empty on registration.
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrUsernameTaken means the requested username already belongs to someone.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords,
	// so callers cannot tell which one happened.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound covers tasks that do not exist for the requesting owner,
	// including tasks that exist but belong to someone else.
	ErrNotFound = errors.New("task not found")
	// ErrTitleRequired means a task was submitted without a title.
	ErrTitleRequired = errors.New("title is required")
	// ErrTitleTooLong means the title exceeds the column size.
	ErrTitleTooLong = errors.New("title is too long")
	// ErrInvalidStatus means the status is not one of pending, in_progress, completed.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidPriority means the priority is not one of low, medium, high.
	ErrInvalidPriority = errors.New("invalid priority")
)
