package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status. Unknown email and
// wrong password intentionally share ErrInvalidCredentials, and a missing
// session shares ErrInvalidRefreshToken with a mismatched token, so the
// API never discloses which check failed.
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUnauthenticated     = errors.New("missing or invalid token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrForbidden           = errors.New("insufficient role")
	ErrIdentityNotFound    = errors.New("token user not found")
	ErrEmailExists         = errors.New("email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrTaskNotFound        = errors.New("task not found")
)
