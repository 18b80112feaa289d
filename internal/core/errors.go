// Package core implements the application services: authentication,
// diagnosis, profile management, feedback and enquiry capture. Failures are
// reported through the sentinel errors below; callers match them with
// errors.Is and map them to HTTP status codes at the API boundary.
package core

import "errors"

var (
	// ErrValidation covers missing or malformed input.
	ErrValidation = errors.New("validation error")
	// ErrEmailTaken is returned on registration or profile update when the
	// email already belongs to another account.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials is returned for unknown email and for a wrong
	// password alike, so the response does not leak which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUpstream is returned when the prediction service fails, times out
	// or answers with an unusable payload.
	ErrUpstream = errors.New("prediction service unavailable")
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
)
