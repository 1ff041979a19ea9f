package handlog

import "errors"

var (
	// ErrNotFound marks a tournament, hand or decision file that does not exist.
	ErrNotFound = errors.New("handlog: not found")
	// ErrMalformed marks a file that exists but fails decoding or validation.
	ErrMalformed = errors.New("handlog: malformed")
	ErrInvalidID = errors.New("handlog: invalid tournament id")
)
