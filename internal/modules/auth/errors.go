package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("admin account is deactivated")
	ErrEmailAlreadyExists = errors.New("email is already registered")
)
