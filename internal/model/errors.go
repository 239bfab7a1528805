package model

import "errors"

var (
	// ErrValidation marks input that must block submission (missing deadline, non-positive amount...).
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when an update or lookup target does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned when inserting an id that already exists.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrTransport wraps every failure of the underlying storage backend.
	ErrTransport = errors.New("storage unavailable")
	// ErrUnauthorized is returned when the secondary credential check fails.
	ErrUnauthorized = errors.New("unauthorized")
)
