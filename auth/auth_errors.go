package auth

import "errors"

var (
	// ErrInvalidCredentials is the single user-visible rejection for a failed
	// login. It never indicates which stage (directory or local) failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned when a presented bearer token does not
	// resolve to a principal.
	ErrUnauthorized = errors.New("unauthorized")
)
