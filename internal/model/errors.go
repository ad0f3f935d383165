package model

import "errors"

// Auth errors, surfaced to the joining connection via the join ack. All other
// failure classes are logged and absorbed rather than returned.
var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrWrongPassword      = errors.New("wrong password for this user")
)
