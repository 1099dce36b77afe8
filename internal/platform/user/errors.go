package user

import "errors"

// User validation errors
var (
	ErrInvalidUsername     = errors.New("username must be 3-32 letters, digits, dots, dashes or underscores")
	ErrInvalidPassword     = errors.New("invalid username or password")
	ErrInvalidPasswordHash = errors.New("invalid password hash")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")
	ErrInvalidRole         = errors.New("invalid role")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("username already exists")
	ErrUnauthorized        = errors.New("unauthorized")
)
