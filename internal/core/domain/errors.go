package domain

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// Token validation failures. The session guard collapses all of these into
// ErrNotAuthenticated before anything reaches a client.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)
