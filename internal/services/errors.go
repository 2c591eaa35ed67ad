package services

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidRole       = errors.New("invalid role")
	ErrPasswordTooLong   = errors.New("password too long")

	ErrTaskNotFound      = errors.New("task not found")
	ErrPageNotFound      = errors.New("page not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
)
