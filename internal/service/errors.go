package service

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidRegistration is wrapped by every registration input error.
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrMissingCredentials  = fmt.Errorf("%w: username and password are required", ErrInvalidRegistration)
	ErrUsernameTooLong     = fmt.Errorf("%w: username must be at most %d characters", ErrInvalidRegistration, maxUsernameChars)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidRegistration, maxPasswordBytes)

	// ErrInvalidCredentials is returned for both unknown usernames and wrong
	// passwords so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrTaskNotFound       = errors.New("task not found")
)
