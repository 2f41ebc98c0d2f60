package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown user, inactive account, and
	// wrong password alike so responses never reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrSelfDeletion       = errors.New("an account may not delete itself")
)
